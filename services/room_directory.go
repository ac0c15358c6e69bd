package services

import (
	"chat-engine/metrics"
	"chat-engine/models"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// RoomDirectory owns room identity and membership: it is the only writer
// of rooms and participant rows. Message rows are owned by MessageStore;
// the directory only reaches them through it, inside room deletion.
type RoomDirectory struct {
	db       *gorm.DB
	messages *MessageStore
}

func NewRoomDirectory(db *gorm.DB, messages *MessageStore) *RoomDirectory {
	return &RoomDirectory{db: db, messages: messages}
}

// DirectRoomKey derives the canonical key for a direct room. The two ids
// are ordered before formatting, so DirectRoomKey(a, b) == DirectRoomKey(b, a)
// and the unique index on room_key enforces one room per unordered pair.
func DirectRoomKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("DIRECT_%d_%d", a, b)
}

// GetOrCreateDirectRoom returns the single direct room between two users,
// creating it together with both participant rows on first use. Two
// callers racing on first creation both end up with the same room: the
// loser hits the unique room_key index, re-reads and returns the winner's.
func (d *RoomDirectory) GetOrCreateDirectRoom(a, b models.User) (*models.Room, error) {
	if a.ID == b.ID {
		return nil, fmt.Errorf("direct room with oneself: %w", ErrInvalidOperation)
	}

	key := DirectRoomKey(a.ID, b.ID)

	var room models.Room
	err := d.db.Where("room_key = ?", key).First(&room).Error
	if err == nil {
		return &room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := models.Room{
		Type:    models.RoomDirect,
		Name:    a.Nickname + " · " + b.Nickname,
		RoomKey: &key,
	}
	err = d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		parts := []models.Participant{
			{RoomID: created.ID, UserID: a.ID},
			{RoomID: created.ID, UserID: b.ID},
		}
		return tx.Create(&parts).Error
	})
	if err == nil {
		metrics.RoomsCreated.WithLabelValues(string(models.RoomDirect)).Inc()
		return &created, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the creation race; the other caller's room is authoritative.
		var winner models.Room
		if err := d.db.Where("room_key = ?", key).First(&winner).Error; err != nil {
			return nil, fmt.Errorf("direct room missing after duplicate key: %w", ErrConflict)
		}
		return &winner, nil
	}
	return nil, err
}

// CreateRandomRoom pairs two users in an ad hoc room. Random rooms follow
// direct-room read semantics but carry no canonical key, so every call
// creates a fresh room.
func (d *RoomDirectory) CreateRandomRoom(a, b models.User) (*models.Room, error) {
	if a.ID == b.ID {
		return nil, fmt.Errorf("random room with oneself: %w", ErrInvalidOperation)
	}

	room := models.Room{Type: models.RoomRandom, Name: "random chat"}
	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		parts := []models.Participant{
			{RoomID: room.ID, UserID: a.ID},
			{RoomID: room.ID, UserID: b.ID},
		}
		return tx.Create(&parts).Error
	})
	if err != nil {
		return nil, err
	}
	metrics.RoomsCreated.WithLabelValues(string(models.RoomRandom)).Inc()
	return &room, nil
}

// CreateGroupRoom binds a room 1:1 to an externally owned group.
// Idempotent: the existing room is returned when the group already has
// one, including when a concurrent caller just created it.
func (d *RoomDirectory) CreateGroupRoom(groupID uint, title string) (*models.Room, error) {
	var room models.Room
	err := d.db.Where("group_id = ?", groupID).First(&room).Error
	if err == nil {
		return &room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := models.Room{Type: models.RoomGroup, Name: title, GroupID: &groupID}
	err = d.db.Create(&created).Error
	if err == nil {
		metrics.RoomsCreated.WithLabelValues(string(models.RoomGroup)).Inc()
		return &created, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var winner models.Room
		if err := d.db.Where("group_id = ?", groupID).First(&winner).Error; err != nil {
			return nil, fmt.Errorf("group room missing after duplicate key: %w", ErrConflict)
		}
		return &winner, nil
	}
	return nil, err
}

// JoinGroupRoom makes sure the group's room exists and adds the user to
// it. Joining twice is a no-op.
func (d *RoomDirectory) JoinGroupRoom(groupID uint, title string, user models.User) error {
	room, err := d.CreateGroupRoom(groupID, title)
	if err != nil {
		return err
	}

	ok, err := d.IsParticipant(room.ID, user.ID)
	if err != nil || ok {
		return err
	}

	p := models.Participant{RoomID: room.ID, UserID: user.ID}
	if err := d.db.Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent join; membership is already there.
			return nil
		}
		return err
	}
	return nil
}

// LeaveGroupRoom removes the user from the group's room. When the last
// participant leaves, the room and its messages are deleted. No-op if the
// room does not exist or the user was never a member. The remove, the
// remaining-count and the cascade run in one transaction so a concurrent
// join cannot slip between the count and the delete, and a crash cannot
// leave a zero-participant room behind.
func (d *RoomDirectory) LeaveGroupRoom(groupID, userID uint) error {
	var room models.Room
	err := d.db.Where("group_id = ?", groupID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if room.Type != models.RoomGroup {
		return nil
	}

	return d.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("room_id = ? AND user_id = ?", room.ID, userID).
			Delete(&models.Participant{})
		if res.Error != nil {
			return res.Error
		}

		var remaining int64
		err := tx.Model(&models.Participant{}).
			Where("room_id = ?", room.ID).
			Count(&remaining).Error
		if err != nil {
			return err
		}
		if remaining == 0 {
			return d.deleteRoomTx(tx, room.ID)
		}
		return nil
	})
}

// GetRoom resolves a room id.
func (d *RoomDirectory) GetRoom(roomID uint) (*models.Room, error) {
	var room models.Room
	if err := d.db.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("room %d: %w", roomID, ErrNotFound)
		}
		return nil, err
	}
	return &room, nil
}

// IsParticipant reports whether the user has a membership row in the room.
func (d *RoomDirectory) IsParticipant(roomID, userID uint) (bool, error) {
	var n int64
	err := d.db.Model(&models.Participant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&n).Error
	return n > 0, err
}

// Participants lists every membership row of a room.
func (d *RoomDirectory) Participants(roomID uint) ([]models.Participant, error) {
	var parts []models.Participant
	err := d.db.Where("room_id = ?", roomID).Find(&parts).Error
	return parts, err
}

// RoomsByUser returns the user's rooms of one kind. The composite
// participant key means a user appears at most once per room, so the join
// cannot produce duplicates.
func (d *RoomDirectory) RoomsByUser(userID uint, kind models.RoomType) ([]models.Room, error) {
	var rooms []models.Room
	err := d.db.
		Joins("JOIN participants ON participants.room_id = rooms.id").
		Where("participants.user_id = ? AND rooms.type = ?", userID, kind).
		Find(&rooms).Error
	return rooms, err
}

// DeleteRoom removes the room with all of its participants and messages in
// one transaction; a half-deleted room is never observable.
func (d *RoomDirectory) DeleteRoom(roomID uint) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return d.deleteRoomTx(tx, roomID)
	})
}

// deleteRoomTx is the deletion sequence itself: participants, then
// messages, then the room, all on the caller's transaction.
func (d *RoomDirectory) deleteRoomTx(tx *gorm.DB, roomID uint) error {
	if err := tx.Where("room_id = ?", roomID).Delete(&models.Participant{}).Error; err != nil {
		return err
	}
	if err := d.messages.BulkDelete(tx, roomID); err != nil {
		return err
	}
	return tx.Delete(&models.Room{}, roomID).Error
}
