package repository

import (
	"context"

	"padelcourt/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UnreadCount struct {
	FromUserID string
	Count      int64
}

type DefaultMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *DefaultMessageRepository {
	return &DefaultMessageRepository{db: db}
}

func (m *DefaultMessageRepository) FindByID(ctx context.Context, id string) (*entity.Message, error) {
	var msg entity.Message
	err := m.db.WithContext(ctx).First(&msg, "id = ?", id).Error
	return notFoundAsNil(&msg, err)
}

// Create stores msg and loads its sender and receiver.
func (m *DefaultMessageRepository) Create(ctx context.Context, msg *entity.Message) error {
	db := m.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(msg).Error; err != nil {
		return err
	}
	return db.Preload("Sender").Preload("Receiver").First(msg, "id = ?", msg.ID).Error
}

func (m *DefaultMessageRepository) FindConversation(ctx context.Context, a, b string, limit, offset int) ([]*entity.Message, error) {
	var msgs []*entity.Message
	err := m.db.WithContext(ctx).
		Preload("Sender").
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", a, b, b, a).
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	return msgs, err
}

// MarkRead flags every unread message from -> to as read and returns how
// many changed. Repeating it is a no-op.
func (m *DefaultMessageRepository) MarkRead(ctx context.Context, from, to string) (int64, error) {
	res := m.db.WithContext(ctx).Model(&entity.Message{}).
		Where("from_user_id = ? AND to_user_id = ? AND is_read = ?", from, to, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// Correspondents returns everyone userID has sent to or received from.
func (m *DefaultMessageRepository) Correspondents(ctx context.Context, userID string) ([]string, error) {
	var sentTo, receivedFrom []string
	db := m.db.WithContext(ctx).Model(&entity.Message{})

	if err := db.Where("from_user_id = ?", userID).Distinct().Pluck("to_user_id", &sentTo).Error; err != nil {
		return nil, err
	}
	db = m.db.WithContext(ctx).Model(&entity.Message{})
	if err := db.Where("to_user_id = ?", userID).Distinct().Pluck("from_user_id", &receivedFrom).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(sentTo)+len(receivedFrom))
	ids := make([]string, 0, len(sentTo)+len(receivedFrom))
	for _, id := range append(sentTo, receivedFrom...) {
		if id == userID || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// UnreadBySender counts unread messages to userID grouped by sender.
func (m *DefaultMessageRepository) UnreadBySender(ctx context.Context, userID string) (map[string]int64, error) {
	var rows []UnreadCount
	err := m.db.WithContext(ctx).Model(&entity.Message{}).
		Select("from_user_id, COUNT(*) AS count").
		Where("to_user_id = ? AND is_read = ?", userID, false).
		Group("from_user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.FromUserID] = r.Count
	}
	return counts, nil
}

func (m *DefaultMessageRepository) LastBetween(ctx context.Context, a, b string) (*entity.Message, error) {
	var msg entity.Message
	err := m.db.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", a, b, b, a).
		Order("created_at desc").
		First(&msg).Error
	return notFoundAsNil(&msg, err)
}

func (m *DefaultMessageRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := m.db.WithContext(ctx).Model(&entity.Message{}).
		Where("to_user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (m *DefaultMessageRepository) Delete(ctx context.Context, msg *entity.Message) error {
	return m.db.WithContext(ctx).Delete(&entity.Message{}, "id = ?", msg.ID).Error
}
