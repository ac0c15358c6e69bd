package models

import "time"

// Message is one immutable unit of conversation content. Its id comes from
// the database identity column, so ids are strictly increasing within a
// room and never reused; the id doubles as the ordering key and as the unit
// the read watermark compares against.
type Message struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID    uint      `gorm:"not null;index" json:"room_id"`
	SenderID  uint      `gorm:"not null" json:"sender_id"`
	Content   string    `gorm:"size:1000;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
