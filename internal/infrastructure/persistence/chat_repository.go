package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/merrysway/storefront/internal/domain/chat"
	"github.com/merrysway/storefront/internal/domain/shared"
	"github.com/merrysway/storefront/internal/infrastructure/persistence/models"
)

// GormChatRepository implements chat.Repository using GORM
type GormChatRepository struct {
	db *gorm.DB
}

// NewGormChatRepository creates a new GormChatRepository
func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	return &GormChatRepository{db: db}
}

// Touch creates the session or bumps its last activity
func (r *GormChatRepository) Touch(ctx context.Context, sessionID, userEmail string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkSessionOwner(tx, sessionID, userEmail); err != nil {
			return err
		}
		now := time.Now()
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_active"}),
		}).Create(&models.ChatSessionModel{
			ID:         sessionID,
			UserEmail:  userEmail,
			CreatedAt:  now,
			LastActive: now,
		}).Error
	})
}

// Load returns the session's messages in insertion order
func (r *GormChatRepository) Load(ctx context.Context, sessionID, userEmail string) ([]chat.Message, error) {
	db := r.db.WithContext(ctx)
	if err := checkSessionOwner(db, sessionID, userEmail); err != nil {
		return nil, err
	}
	var rows []models.ChatMessageModel
	if err := db.
		Joins("JOIN chat_sessions ON chat_sessions.id = chat_messages.session_id AND chat_sessions.user_email = ?", userEmail).
		Where("chat_messages.session_id = ?", sessionID).
		Order("chat_messages.id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	messages := make([]chat.Message, len(rows))
	for i := range rows {
		messages[i] = rows[i].ToDomain()
	}
	return messages, nil
}

// checkSessionOwner fails with shared.ErrNotFound when the session exists
// under another user. A missing session passes.
func checkSessionOwner(db *gorm.DB, sessionID, userEmail string) error {
	var session models.ChatSessionModel
	err := db.Select("id", "user_email").Where("id = ?", sessionID).Take(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if session.UserEmail != userEmail {
		return shared.ErrNotFound
	}
	return nil
}

// Append adds messages to the session log
func (r *GormChatRepository) Append(ctx context.Context, sessionID, userEmail string, messages []chat.Message) error {
	if len(messages) == 0 {
		return nil
	}
	rows := make([]models.ChatMessageModel, len(messages))
	for i, m := range messages {
		rows[i] = models.ChatMessageModel{
			SessionID: sessionID,
			UserEmail: userEmail,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.Timestamp,
		}
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

var _ chat.Repository = (*GormChatRepository)(nil)
