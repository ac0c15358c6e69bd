package models

import "time"

// Participant is one user's membership in one room. The composite primary
// key guarantees at most one row per (room, user). LastReadMessageID is nil
// until the user has read anything and only ever moves forward; the read
// tracker is its sole writer.
type Participant struct {
	RoomID            uint      `gorm:"primaryKey" json:"room_id"`
	UserID            uint      `gorm:"primaryKey" json:"user_id"`
	LastReadMessageID *uint     `json:"last_read_message_id"`
	JoinedAt          time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
