package services

import (
	"chat-engine/metrics"
	"chat-engine/models"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// MaxMessageLength bounds a message body in runes, matching the column size.
const MaxMessageLength = 1000

// MessageStore is the append-only per-room message log. Ids are assigned
// by the database identity column, never computed in application code, so
// concurrent senders cannot produce duplicates or reordering.
type MessageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Append stores one message and returns it with its assigned id and
// timestamp. Blank or over-length content fails with ErrInvalidContent.
func (s *MessageStore) Append(room *models.Room, sender models.User, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty message: %w", ErrInvalidContent)
	}
	if len([]rune(content)) > MaxMessageLength {
		return nil, fmt.Errorf("message over %d chars: %w", MaxMessageLength, ErrInvalidContent)
	}

	msg := models.Message{RoomID: room.ID, SenderID: sender.ID, Content: content}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}
	metrics.MessagesAppended.Inc()
	return &msg, nil
}

// ListOrdered returns every message of the room, oldest first.
func (s *MessageStore) ListOrdered(roomID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.Where("room_id = ?", roomID).Order("id ASC").Find(&msgs).Error
	return msgs, err
}

// LastMessage returns the newest message of the room, or nil when the room
// has none.
func (s *MessageStore) LastMessage(roomID uint) (*models.Message, error) {
	var msg models.Message
	err := s.db.Where("room_id = ?", roomID).Order("id DESC").First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// CountAfter counts messages with ids above the given watermark. A nil
// watermark means nothing was read yet, so every message counts.
func (s *MessageStore) CountAfter(roomID uint, after *uint) (int64, error) {
	var base uint
	if after != nil {
		base = *after
	}
	var n int64
	err := s.db.Model(&models.Message{}).
		Where("room_id = ? AND id > ?", roomID, base).
		Count(&n).Error
	return n, err
}

// BulkDelete drops every message of a room. Only the room directory calls
// this, from inside its room-deletion transaction.
func (s *MessageStore) BulkDelete(tx *gorm.DB, roomID uint) error {
	return tx.Where("room_id = ?", roomID).Delete(&models.Message{}).Error
}
