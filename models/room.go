package models

import "time"

// RoomType discriminates how a room came to exist and which read-state
// policy applies to it.
type RoomType string

const (
	RoomDirect RoomType = "DIRECT"
	RoomGroup  RoomType = "GROUP"
	RoomRandom RoomType = "RANDOM"
)

// Room is a conversation container. RoomKey is set only for DIRECT rooms
// and is unique per unordered user pair; GroupID is set only for GROUP
// rooms and is unique per external group. RANDOM rooms carry neither.
type Room struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Type      RoomType  `gorm:"type:varchar(10);not null;index" json:"type"`
	Name      string    `gorm:"size:100" json:"name"`
	RoomKey   *string   `gorm:"uniqueIndex;size:100" json:"-"`
	GroupID   *uint     `gorm:"uniqueIndex" json:"group_id,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsGroup reports whether the per-message unread-member-count policy
// applies; direct and random rooms use the read-by-all policy instead.
func (r *Room) IsGroup() bool {
	return r.Type == RoomGroup
}
