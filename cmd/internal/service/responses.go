package service

import (
	"encoding/json"
	"time"

	"padelcourt/cmd/internal/domain/entity"
	"padelcourt/cmd/internal/utils"

	"github.com/labstack/gommon/log"
	"gorm.io/datatypes"
)

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     *string `json:"phone"`
	Avatar    *string `json:"avatar"`
	Language  string  `json:"language"`
	Role      string  `json:"role"`
	IsActive  bool    `json:"isActive"`
	LastSeen  *string `json:"lastSeen"`
	CreatedAt string  `json:"createdAt"`
}

type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type AuthResponse struct {
	Message      string        `json:"message"`
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type UserPageResponse struct {
	Users      []*UserResponse `json:"users"`
	Pagination Pagination      `json:"pagination"`
}

type CourtResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Description *string `json:"description"`
	OpeningTime float64 `json:"openingTime"`
	ClosingTime float64 `json:"closingTime"`
	IsActive    bool    `json:"isActive"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type CourtSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type BookingResponse struct {
	ID                string        `json:"id"`
	UserID            string        `json:"userId"`
	CourtID           string        `json:"courtId"`
	Date              string        `json:"date"`
	StartTime         float64       `json:"startTime"`
	EndTime           float64       `json:"endTime"`
	Status            string        `json:"status"`
	RecurrenceType    string        `json:"recurrenceType"`
	RecurrenceEndDate *string       `json:"recurrenceEndDate"`
	Notes             *string       `json:"notes"`
	CancelledAt       *string       `json:"cancelledAt"`
	CreatedAt         string        `json:"createdAt"`
	UpdatedAt         string        `json:"updatedAt"`
	Court             *CourtSummary `json:"court,omitempty"`
	User              *UserSummary  `json:"user,omitempty"`
}

type WaitListResponse struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	CourtID   string        `json:"courtId"`
	Date      string        `json:"date"`
	StartTime float64       `json:"startTime"`
	CreatedAt string        `json:"createdAt"`
	Court     *CourtSummary `json:"court,omitempty"`
}

type NotificationResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	IsRead    bool            `json:"isRead"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt string          `json:"createdAt"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	UnreadCount   int64                   `json:"unreadCount"`
	TotalCount    int                     `json:"totalCount"`
}

type MessageResponse struct {
	ID         string       `json:"id"`
	FromUserID string       `json:"fromUserId"`
	ToUserID   string       `json:"toUserId"`
	Message    string       `json:"message"`
	IsRead     bool         `json:"isRead"`
	CreatedAt  string       `json:"createdAt"`
	Sender     *UserSummary `json:"sender,omitempty"`
	Receiver   *UserSummary `json:"receiver,omitempty"`
}

type ConversationResponse struct {
	Messages []*MessageResponse `json:"messages"`
	Total    int                `json:"total"`
}

type LastMessage struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	FromMe    bool   `json:"fromMe"`
}

type ConversationSummary struct {
	User        *UserSummary `json:"user"`
	UnreadCount int64        `json:"unreadCount"`
	LastMessage *LastMessage `json:"lastMessage"`

	lastAt time.Time
}

type AuditLogResponse struct {
	ID        string          `json:"id"`
	UserID    *string         `json:"userId"`
	Action    string          `json:"action"`
	Entity    string          `json:"entity"`
	EntityID  string          `json:"entityId"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt string          `json:"createdAt"`
}

type AuditLogPageResponse struct {
	Logs   []*AuditLogResponse `json:"logs"`
	Total  int64               `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

type GalleryImageResponse struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	ImageURL    string       `json:"imageUrl"`
	IsActive    bool         `json:"isActive"`
	UserID      string       `json:"userId"`
	CreatedAt   string       `json:"createdAt"`
	Uploader    *UserSummary `json:"user,omitempty"`
}

type ContactResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

type CountResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Avatar:    user.Avatar,
		Language:  user.Language,
		Role:      user.Role,
		IsActive:  user.IsActive,
		LastSeen:  formatTimePtr(user.LastSeen),
		CreatedAt: utils.FormatTime(user.CreatedAt),
	}
}

// toUserSummary returns nil for an unloaded relation.
func toUserSummary(user *entity.User) *UserSummary {
	if user == nil || user.ID == "" {
		return nil
	}
	return &UserSummary{ID: user.ID, FirstName: user.FirstName, LastName: user.LastName, Email: user.Email}
}

func toCourtResponse(court *entity.Court) *CourtResponse {
	return &CourtResponse{
		ID:          court.ID,
		Name:        court.Name,
		Color:       court.Color,
		Description: court.Description,
		OpeningTime: court.OpeningTime,
		ClosingTime: court.ClosingTime,
		IsActive:    court.IsActive,
		CreatedAt:   utils.FormatTime(court.CreatedAt),
		UpdatedAt:   utils.FormatTime(court.UpdatedAt),
	}
}

func toCourtSummary(court *entity.Court) *CourtSummary {
	if court == nil || court.ID == "" {
		return nil
	}
	return &CourtSummary{ID: court.ID, Name: court.Name, Color: court.Color}
}

func toBookingResponse(b *entity.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                b.ID,
		UserID:            b.UserID,
		CourtID:           b.CourtID,
		Date:              b.Date,
		StartTime:         b.StartTime,
		EndTime:           b.EndTime,
		Status:            b.Status,
		RecurrenceType:    b.RecurrenceType,
		RecurrenceEndDate: b.RecurrenceEndDate,
		Notes:             b.Notes,
		CancelledAt:       formatTimePtr(b.CancelledAt),
		CreatedAt:         utils.FormatTime(b.CreatedAt),
		UpdatedAt:         utils.FormatTime(b.UpdatedAt),
		Court:             toCourtSummary(&b.Court),
		User:              toUserSummary(&b.User),
	}
}

func toBookingResponses(bookings []*entity.Booking) []*BookingResponse {
	resp := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return resp
}

func toWaitListResponse(e *entity.WaitListEntry) *WaitListResponse {
	return &WaitListResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		CourtID:   e.CourtID,
		Date:      e.Date,
		StartTime: e.StartTime,
		CreatedAt: utils.FormatTime(e.CreatedAt),
		Court:     toCourtSummary(&e.Court),
	}
}

func toNotificationResponse(n *entity.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		Data:      json.RawMessage(n.Data),
		CreatedAt: utils.FormatTime(n.CreatedAt),
	}
}

func toMessageResponse(m *entity.Message) *MessageResponse {
	return &MessageResponse{
		ID:         m.ID,
		FromUserID: m.FromUserID,
		ToUserID:   m.ToUserID,
		Message:    m.Body,
		IsRead:     m.IsRead,
		CreatedAt:  utils.FormatTime(m.CreatedAt),
		Sender:     toUserSummary(&m.Sender),
		Receiver:   toUserSummary(&m.Receiver),
	}
}

func toAuditLogResponse(a *entity.AuditLog) *AuditLogResponse {
	return &AuditLogResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Action:    a.Action,
		Entity:    a.Entity,
		EntityID:  a.EntityID,
		Details:   json.RawMessage(a.Details),
		CreatedAt: utils.FormatTime(a.CreatedAt),
	}
}

func toGalleryImageResponse(img *entity.GalleryImage) *GalleryImageResponse {
	return &GalleryImageResponse{
		ID:          img.ID,
		Title:       img.Title,
		Description: img.Description,
		ImageURL:    img.ImageURL,
		IsActive:    img.IsActive,
		UserID:      img.UserID,
		CreatedAt:   utils.FormatTime(img.CreatedAt),
		Uploader:    toUserSummary(&img.User),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := utils.FormatTime(*t)
	return &s
}

// jsonData encodes v for a JSON column. Encoding failures are logged and
// leave the column empty.
func jsonData(v map[string]any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		log.Warnf("failed to encode json column: %v", err)
		return nil
	}
	return datatypes.JSON(b)
}

func newAudit(actorID, action, ent, entityID string, details map[string]any) *entity.AuditLog {
	audit := &entity.AuditLog{
		Action:   action,
		Entity:   ent,
		EntityID: entityID,
		Details:  jsonData(details),
	}
	if actorID != "" {
		audit.UserID = &actorID
	}
	return audit
}
