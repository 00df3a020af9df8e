package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"padelcourt/cmd/internal/service"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// Client to server events.
const (
	EventUserOnline  = "user:online"
	EventMessageSend = "message:send"
	EventTyping      = "user:typing"
)

type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*utils.TokenData, apierror.ErrorResponse)
}

type MessageSender interface {
	SendMessage(ctx context.Context, fromID string, req *service.SendMessageRequest) (*service.MessageResponse, apierror.ErrorResponse)
}

type LastSeenRecorder interface {
	TouchLastSeen(ctx context.Context, userID string)
}

type announcePayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type typingPayload struct {
	ToUserID string `json:"toUserId"`
}

type Gateway struct {
	Hub      *Hub
	Auth     Authenticator
	Messages MessageSender
	Users    LastSeenRecorder

	upgrader websocket.Upgrader
}

func NewGateway(hub *Hub, auth Authenticator, messages MessageSender, users LastSeenRecorder, allowedOrigins []string) *Gateway {
	return &Gateway{
		Hub:      hub,
		Auth:     auth,
		Messages: messages,
		Users:    users,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// Serve upgrades an authenticated request and runs the session until the
// peer disconnects. The access token comes from ?token= or the bearer header.
func (g *Gateway) Serve(c echo.Context) error {
	raw := c.QueryParam("token")
	if raw == "" {
		raw = strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	}
	if raw == "" {
		return c.JSON(apierror.MissingAuthTokenError.Code(), apierror.MissingAuthTokenError)
	}

	token, apierr := g.Auth.Authenticate(c.Request().Context(), raw)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	conn, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Debugf("websocket upgrade for %s failed: %v", token.UserID, err)
		return nil
	}

	ctx := context.WithoutCancel(c.Request().Context())
	client := newClient(conn, token.UserID, token.Role)
	g.Hub.join(client)
	go client.writePump()

	client.readPump(func(f Frame) { g.handle(ctx, client, f) })
	g.disconnect(ctx, client)
	return nil
}

func (g *Gateway) handle(ctx context.Context, c *Client, f Frame) {
	switch f.Event {
	case EventUserOnline:
		var p announcePayload
		if len(f.Data) > 0 {
			if err := json.Unmarshal(f.Data, &p); err != nil {
				log.Debugf("malformed %s from %s: %v", f.Event, c.UserID, err)
			}
		}
		g.announce(ctx, c, p)

	case EventMessageSend:
		var req service.SendMessageRequest
		if err := json.Unmarshal(f.Data, &req); err != nil {
			g.Hub.sendTo(c, service.EventMessageError, apierror.MalformedBodyError)
			return
		}
		if _, apierr := g.Messages.SendMessage(ctx, c.UserID, &req); apierr != nil {
			g.Hub.sendTo(c, service.EventMessageError, apierr)
		}

	case EventTyping:
		var p typingPayload
		if err := json.Unmarshal(f.Data, &p); err != nil || p.ToUserID == "" {
			return
		}
		g.emit(ctx, p.ToUserID, service.EventUserTyping, map[string]string{"userId": c.UserID})

	default:
		log.Debugf("ignoring unknown event %q from %s", f.Event, c.UserID)
	}
}

func (g *Gateway) announce(ctx context.Context, c *Client, p announcePayload) {
	err := g.Hub.Store.Register(ctx, Presence{
		UserID:      c.UserID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Role:        c.Role,
		ConnectedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Warnf("failed to register presence of %s: %v", c.UserID, err)
		return
	}
	g.Users.TouchLastSeen(ctx, c.UserID)
	g.broadcastOnline(ctx)
}

// disconnect keeps the user online while another local session is open.
func (g *Gateway) disconnect(ctx context.Context, c *Client) {
	if g.Hub.leave(c) > 0 {
		return
	}
	if err := g.Hub.Store.Unregister(ctx, c.UserID); err != nil {
		log.Warnf("failed to unregister presence of %s: %v", c.UserID, err)
	}
	g.Users.TouchLastSeen(ctx, c.UserID)
	g.broadcastOnline(ctx)
}

func (g *Gateway) broadcastOnline(ctx context.Context) {
	online, err := g.Hub.Store.List(ctx)
	if err != nil {
		log.Warnf("failed to list online users: %v", err)
		return
	}
	g.emit(ctx, "", service.EventUsersOnline, online)
}

func (g *Gateway) emit(ctx context.Context, room, event string, payload any) {
	if err := g.Hub.emit(ctx, room, event, payload); err != nil {
		log.Debugf("failed to emit %s: %v", event, err)
	}
}
