package services

import (
	"chat-engine/metrics"
	"chat-engine/models"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ReadTracker owns the per-participant read watermark; nothing else writes
// last_read_message_id.
type ReadTracker struct {
	db *gorm.DB
}

func NewReadTracker(db *gorm.DB) *ReadTracker {
	return &ReadTracker{db: db}
}

// MyParticipant resolves the caller's membership row. This doubles as the
// authorization gate: only participants may touch a room's read state.
func (t *ReadTracker) MyParticipant(roomID, userID uint) (*models.Participant, error) {
	var p models.Participant
	err := t.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d in room %d: %w", userID, roomID, ErrNotAParticipant)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkRead advances the caller's watermark to messageID. A nil id is a
// no-op. The comparison and the write happen in one guarded UPDATE, so the
// watermark can only move forward no matter how concurrent or out-of-order
// the calls are; an update that would move it backward matches zero rows
// and is still a success.
func (t *ReadTracker) MarkRead(roomID, userID uint, messageID *uint) error {
	if messageID == nil {
		return nil
	}
	if _, err := t.MyParticipant(roomID, userID); err != nil {
		return err
	}

	res := t.db.Model(&models.Participant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Where("last_read_message_id IS NULL OR last_read_message_id < ?", *messageID).
		Update("last_read_message_id", *messageID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		metrics.ReadMarks.Inc()
	}
	return nil
}
