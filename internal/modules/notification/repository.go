package notification

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type notificationModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;index:idx_notifications_user_unread"`
	SenderID  int64     `gorm:"column:sender_id"`
	Type      string    `gorm:"column:type"`
	Title     string    `gorm:"column:title"`
	Message   *string   `gorm:"column:message"`
	Data      []byte    `gorm:"column:data"`
	IsRead    bool      `gorm:"column:is_read;index:idx_notifications_user_unread"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the notifications table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&notificationModel{})
}

func toDomain(m notificationModel) Notification {
	msg := ""
	if m.Message != nil {
		msg = *m.Message
	}

	return Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		SenderID:  m.SenderID,
		Type:      Type(m.Type),
		Title:     m.Title,
		Message:   msg,
		Data:      json.RawMessage(m.Data),
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func (r *Repository) Create(ctx context.Context, n *Notification, data map[string]any) error {
	var raw []byte
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		raw = b
	}

	var msg *string
	if n.Message != "" {
		m := n.Message
		msg = &m
	}

	m := notificationModel{
		UserID:   n.UserID,
		SenderID: n.SenderID,
		Type:     string(n.Type),
		Title:    n.Title,
		Message:  msg,
		Data:     raw,
		IsRead:   n.IsRead,
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}

	*n = toDomain(m)
	return nil
}

func (r *Repository) GetByUserID(ctx context.Context, userID int64, limit int) ([]Notification, error) {
	q := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []notificationModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomain(m))
	}
	return out, nil
}

func (r *Repository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *Repository) MarkAsRead(ctx context.Context, id, userID int64) error {
	res := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) MarkAllAsRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
