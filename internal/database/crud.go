package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func GetChats(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]Chat, error) {
	var chats []Chat
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&chats).Error
	return chats, err
}

func GetChat(ctx context.Context, db *gorm.DB, userID, chatID uuid.UUID) (Chat, error) {
	var chat Chat
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", chatID, userID).
		First(&chat).Error
	return chat, err
}

func CreateChat(ctx context.Context, db *gorm.DB, chat *Chat) error {
	return db.WithContext(ctx).Create(chat).Error
}

func UpdateChatTitle(ctx context.Context, db *gorm.DB, chatID uuid.UUID, title string) error {
	if err := db.WithContext(ctx).Model(&Chat{ID: chatID}).Update("title", title).Error; err != nil {
		slog.Error("error updating chat title", "chat_id", chatID, "error", err)
		return err
	}
	return nil
}

// DeleteChat removes a chat and its messages. The two deletes run inside one
// transaction so an interrupted cascade never leaves orphaned messages.
func DeleteChat(ctx context.Context, db *gorm.DB, chatID uuid.UUID) error {
	return db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := txn.Delete(&Message{}, "chat_id = ?", chatID).Error; err != nil {
			return fmt.Errorf("failed to delete messages for chat %s: %w", chatID, err)
		}
		if err := txn.Delete(&Chat{}, "id = ?", chatID).Error; err != nil {
			return fmt.Errorf("failed to delete chat %s: %w", chatID, err)
		}
		return nil
	})
}

func GetMessages(ctx context.Context, db *gorm.DB, chatID uuid.UUID, limit, offset int) ([]Message, error) {
	var messages []Message
	query := db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&messages).Error
	return messages, err
}

func CountMessages(ctx context.Context, db *gorm.DB, chatID uuid.UUID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&Message{}).Where("chat_id = ?", chatID).Count(&count).Error
	return count, err
}

// CreateMessage inserts the message and bumps the parent chat's updated_at so
// the chat directory keeps its most-recently-active ordering.
func CreateMessage(ctx context.Context, db *gorm.DB, message *Message) error {
	return db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := txn.Create(message).Error; err != nil {
			return err
		}
		return txn.Model(&Chat{ID: message.ChatID}).Update("updated_at", time.Now().UTC()).Error
	})
}
