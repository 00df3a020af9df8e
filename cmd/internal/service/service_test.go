package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"padelcourt/cmd/internal/auth"
	"padelcourt/cmd/internal/domain/database"
	"padelcourt/cmd/internal/domain/database/repository"
	"padelcourt/cmd/internal/domain/entity"
	"padelcourt/cmd/internal/integration/mail"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type emitted struct {
	UserID  string
	Event   string
	Payload any
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []emitted
}

func (r *recordingBroadcaster) EmitToUser(_ context.Context, userID, event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, emitted{UserID: userID, Event: event, Payload: payload})
	return nil
}

func (r *recordingBroadcaster) EmitAll(_ context.Context, event string, payload any) error {
	return r.EmitToUser(context.Background(), "", event, payload)
}

func (r *recordingBroadcaster) count(userID, event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.UserID == userID && e.Event == event {
			n++
		}
	}
	return n
}

type recordingQueue struct {
	mu   sync.Mutex
	msgs []*mail.Message
}

func (r *recordingQueue) Enqueue(_ context.Context, msg *mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recordingQueue) sentTo(to string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.msgs {
		if m.To == to {
			n++
		}
	}
	return n
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	return nil
}

type testEnv struct {
	db        *gorm.DB
	ctx       context.Context
	validate  *validator.Validate
	bus       *recordingBroadcaster
	queue     *recordingQueue
	publisher *recordingPublisher
	effects   *SideEffects

	users    *repository.DefaultUserRepository
	courts   *repository.DefaultCourtRepository
	bookings *repository.DefaultBookingRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Init(database.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}

	validate := validator.New()
	validators.Register(validate)

	env := &testEnv{
		db:        db,
		ctx:       context.Background(),
		validate:  validate,
		bus:       &recordingBroadcaster{},
		queue:     &recordingQueue{},
		publisher: &recordingPublisher{},
		users:     repository.NewUserRepository(db),
		courts:    repository.NewCourtRepository(db),
		bookings:  repository.NewBookingRepository(db),
	}
	env.effects = &SideEffects{Broadcaster: env.bus, Mail: env.queue, Events: env.publisher}
	return env
}

func (e *testEnv) user(t *testing.T, email, role string) *utils.TokenData {
	t.Helper()
	u := &entity.User{Email: email, PasswordHash: "x", FirstName: "First", LastName: "Last", Role: role, Language: "en", IsActive: true}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &utils.TokenData{UserID: u.ID, Role: role, Email: email}
}

func (e *testEnv) court(t *testing.T, name string, active bool) *entity.Court {
	t.Helper()
	c := &entity.Court{Name: name, Color: "#2563EB", OpeningTime: 8, ClosingTime: 22, IsActive: true}
	if err := e.db.Create(c).Error; err != nil {
		t.Fatalf("create court: %v", err)
	}
	if !active {
		e.db.Model(c).Update("is_active", false)
	}
	return c
}

func (e *testEnv) bookingService() *DefaultBookingService {
	return NewBookingService(e.bookings, e.courts, e.users, BookingWindow{Open: 7, Close: 23}, e.effects, e.validate)
}

func (e *testEnv) waitListService() *DefaultWaitListService {
	return NewWaitListService(repository.NewWaitListRepository(e.db), e.bookings, e.courts, e.validate)
}

func (e *testEnv) messageService() *DefaultMessageService {
	return NewMessageService(repository.NewMessageRepository(e.db), e.users, e.effects)
}

func (e *testEnv) notificationService() *DefaultNotificationService {
	return NewNotificationService(repository.NewNotificationRepository(e.db), e.users, e.effects, e.validate)
}

func (e *testEnv) authService() *DefaultAuthService {
	tokens := auth.NewTokenIssuer("test-secret", time.Minute, time.Hour)
	return NewAuthService(e.users, repository.NewRefreshTokenRepository(e.db), tokens, e.validate)
}

func (e *testEnv) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := e.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func bookingRequest(courtID string) *CreateBookingRequest {
	return &CreateBookingRequest{CourtID: courtID, Date: "2025-06-01", StartTime: 14, EndTime: 15.5}
}

func wantCode(t *testing.T, err interface{ Code() int }, code int) {
	t.Helper()
	if code == 0 {
		if err != nil {
			t.Fatalf("unexpected error %d: %v", err.Code(), err)
		}
		return
	}
	if err == nil {
		t.Fatalf("got no error, want %d", code)
	}
	if err.Code() != code {
		t.Fatalf("got %d (%v), want %d", err.Code(), err, code)
	}
}
