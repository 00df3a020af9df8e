package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"padelcourt/cmd/internal/service"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type tokenAuth struct{}

// Authenticate treats the raw token as the user id.
func (tokenAuth) Authenticate(_ context.Context, raw string) (*utils.TokenData, apierror.ErrorResponse) {
	if raw == "bad" {
		return nil, apierror.InvalidAuthTokenError
	}
	return &utils.TokenData{UserID: raw, Role: "PLAYER"}, nil
}

type fakeMessages struct {
	hub *Hub
}

func (f fakeMessages) SendMessage(ctx context.Context, fromID string, req *service.SendMessageRequest) (*service.MessageResponse, apierror.ErrorResponse) {
	if len(req.Message) > 10 {
		return nil, apierror.MessageTooLongError
	}
	msg := &service.MessageResponse{FromUserID: fromID, ToUserID: req.ToUserID, Message: req.Message}
	f.hub.EmitToUser(ctx, req.ToUserID, service.EventMessageReceive, msg)
	f.hub.EmitToUser(ctx, fromID, service.EventMessageSent, msg)
	return msg, nil
}

type seenRecorder struct {
	mu    sync.Mutex
	users []string
}

func (s *seenRecorder) TouchLastSeen(_ context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, userID)
}

type testServer struct {
	url   string
	store *MemoryPresenceStore
	hub   *Hub
	seen  *seenRecorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := NewMemoryPresenceStore()
	hub := NewHub(store)
	seen := &seenRecorder{}
	gw := NewGateway(hub, tokenAuth{}, fakeMessages{hub: hub}, seen, []string{"*"})

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	waitFor(t, func() bool {
		store.mu.RLock()
		defer store.mu.RUnlock()
		return len(store.handlers) == 1
	})

	e := echo.New()
	e.GET("/ws", gw.Serve)
	srv := httptest.NewServer(e)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return &testServer{url: "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws", store: store, hub: hub, seen: seen}
}

func (s *testServer) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(s.url+"?token="+token, nil)
	if err != nil {
		t.Fatalf("dial as %s: %v", token, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	raw, _ := json.Marshal(data)
	if err := conn.WriteJSON(Frame{Event: event, Data: raw}); err != nil {
		t.Fatalf("send %s: %v", event, err)
	}
}

// readUntil returns the first frame of the given event accepted by match.
func readUntil(t *testing.T, conn *websocket.Conn, event string, match func(json.RawMessage) bool) json.RawMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("waiting for %s: %v", event, err)
		}
		if f.Event == event && (match == nil || match(f.Data)) {
			return f.Data
		}
	}
}

func onlineContains(userID string, want bool) func(json.RawMessage) bool {
	return func(data json.RawMessage) bool {
		var list []Presence
		json.Unmarshal(data, &list)
		for _, p := range list {
			if p.UserID == userID {
				return want
			}
		}
		return !want
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// connect dials and announces, returning once the user sees itself online.
func (s *testServer) connect(t *testing.T, userID string) *websocket.Conn {
	t.Helper()
	conn := s.dial(t, userID)
	send(t, conn, EventUserOnline, map[string]string{"firstName": userID, "lastName": "Test"})
	readUntil(t, conn, service.EventUsersOnline, onlineContains(userID, true))
	return conn
}

func TestRejectsMissingOrBadToken(t *testing.T) {
	s := newTestServer(t)
	for _, url := range []string{s.url, s.url + "?token=bad"} {
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			t.Fatalf("dial %s succeeded", url)
		}
		if resp == nil || resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("dial %s: response %v", url, resp)
		}
	}
}

func TestPresenceAnnounceAndDisconnect(t *testing.T) {
	s := newTestServer(t)
	alice := s.connect(t, "alice")
	bob := s.connect(t, "bob")

	readUntil(t, alice, service.EventUsersOnline, onlineContains("bob", true))
	if p, _ := s.store.Lookup(context.Background(), "bob"); p == nil || p.FirstName != "bob" || p.Role != "PLAYER" {
		t.Errorf("presence of bob = %+v", p)
	}

	bob.Close()
	readUntil(t, alice, service.EventUsersOnline, onlineContains("bob", false))

	s.seen.mu.Lock()
	defer s.seen.mu.Unlock()
	if strings.Count(strings.Join(s.seen.users, ","), "bob") != 2 {
		t.Errorf("last seen recorded for %v", s.seen.users)
	}
}

func TestSecondSessionKeepsUserOnline(t *testing.T) {
	s := newTestServer(t)
	s.connect(t, "alice")
	first := s.connect(t, "bob")
	s.connect(t, "bob")

	first.Close()
	waitFor(t, func() bool {
		s.hub.mu.RLock()
		defer s.hub.mu.RUnlock()
		return len(s.hub.rooms["bob"]) == 1
	})
	if p, _ := s.store.Lookup(context.Background(), "bob"); p == nil {
		t.Errorf("bob went offline while a session is still open")
	}
}

func TestMessageAndTypingEvents(t *testing.T) {
	s := newTestServer(t)
	alice := s.connect(t, "alice")
	bob := s.connect(t, "bob")

	send(t, alice, EventTyping, map[string]string{"toUserId": "bob"})
	data := readUntil(t, bob, service.EventUserTyping, nil)
	if !strings.Contains(string(data), `"userId":"alice"`) {
		t.Errorf("typing payload = %s", data)
	}

	send(t, alice, EventMessageSend, map[string]string{"toUserId": "bob", "message": "hola"})
	readUntil(t, bob, service.EventMessageReceive, nil)
	readUntil(t, alice, service.EventMessageSent, nil)

	send(t, alice, EventMessageSend, map[string]string{"toUserId": "bob", "message": "far too long for the fake"})
	data = readUntil(t, alice, service.EventMessageError, nil)
	if !strings.Contains(string(data), apierror.MessageTooLongError.Error()) {
		t.Errorf("error payload = %s", data)
	}
}

func TestEmitToUserTargetsRoom(t *testing.T) {
	s := newTestServer(t)
	alice := s.connect(t, "alice")
	bob := s.connect(t, "bob")

	ctx := context.Background()
	s.hub.EmitToUser(ctx, "bob", service.EventNotificationNew, map[string]string{"title": "for bob"})
	s.hub.EmitAll(ctx, service.EventBookingCreated, map[string]string{"id": "b1"})

	readUntil(t, bob, service.EventNotificationNew, nil)
	// alice sees the broadcast and nothing addressed to bob before it
	alice.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var f Frame
		if err := alice.ReadJSON(&f); err != nil {
			t.Fatalf("read: %v", err)
		}
		if f.Event == service.EventNotificationNew {
			t.Fatalf("alice received bob's notification")
		}
		if f.Event == service.EventBookingCreated {
			break
		}
	}

	ids, err := s.hub.OnlineUserIDs(ctx)
	if err != nil || len(ids) != 2 || ids[0] != "alice" {
		t.Errorf("online ids = %v, %v", ids, err)
	}
}
