package services

import "chat-engine/models"

// MessageAnnotation is the read-state decoration for one message, computed
// for a specific viewer.
type MessageAnnotation struct {
	Mine      bool
	ReadByAll bool
	// UnreadMemberCount is set only for group rooms: members other than
	// the sender whose watermark has not reached the message.
	UnreadMemberCount *int
}

// UnreadCounter derives read-state signals from messages and watermarks.
// It writes nothing; all state comes through the owning components.
type UnreadCounter struct {
	rooms    *RoomDirectory
	messages *MessageStore
	readers  *ReadTracker
}

func NewUnreadCounter(rooms *RoomDirectory, messages *MessageStore, readers *ReadTracker) *UnreadCounter {
	return &UnreadCounter{rooms: rooms, messages: messages, readers: readers}
}

// minOthersWatermark is the smallest watermark among participants other
// than senderID. Participants that have read nothing are skipped; ok is
// false when nobody else has read anything at all, which callers must
// treat as "not read by all" rather than zero.
func minOthersWatermark(parts []models.Participant, senderID uint) (uint, bool) {
	var min uint
	ok := false
	for _, p := range parts {
		if p.UserID == senderID || p.LastReadMessageID == nil {
			continue
		}
		if !ok || *p.LastReadMessageID < min {
			min = *p.LastReadMessageID
			ok = true
		}
	}
	return min, ok
}

// unreadMembers counts participants other than the sender whose watermark
// is nil or below the message id.
func unreadMembers(parts []models.Participant, m models.Message) int {
	n := 0
	for _, p := range parts {
		if p.UserID == m.SenderID {
			continue
		}
		if p.LastReadMessageID == nil || *p.LastReadMessageID < m.ID {
			n++
		}
	}
	return n
}

// AnnotateAll computes the read-state for a whole message list. Direct and
// random rooms get the read-by-all flag; group rooms get the per-message
// unread member count instead. O(participants) per message, which is fine
// for the room sizes this serves.
func (u *UnreadCounter) AnnotateAll(room *models.Room, viewerID uint, msgs []models.Message) ([]MessageAnnotation, error) {
	parts, err := u.rooms.Participants(room.ID)
	if err != nil {
		return nil, err
	}

	out := make([]MessageAnnotation, len(msgs))
	for i, m := range msgs {
		a := MessageAnnotation{Mine: m.SenderID == viewerID}
		if room.IsGroup() {
			n := unreadMembers(parts, m)
			a.UnreadMemberCount = &n
		} else if min, ok := minOthersWatermark(parts, m.SenderID); ok && min >= m.ID {
			a.ReadByAll = true
		}
		out[i] = a
	}
	return out, nil
}

// UnreadTotal is the viewer's own unread count for one room: messages
// strictly after their watermark, regardless of sender. This is a
// different quantity from the per-message annotations above, which answer
// "has this message been seen by others".
func (u *UnreadCounter) UnreadTotal(roomID, viewerID uint) (int64, error) {
	p, err := u.readers.MyParticipant(roomID, viewerID)
	if err != nil {
		return 0, err
	}
	return u.messages.CountAfter(roomID, p.LastReadMessageID)
}

// BadgeTotal sums unread totals across the user's direct rooms only, as
// the header badge does. Group rooms are deliberately excluded; use
// GroupUnreadTotal when a group-side figure is wanted.
func (u *UnreadCounter) BadgeTotal(userID uint) (int64, error) {
	return u.unreadAcross(userID, models.RoomDirect)
}

// GroupUnreadTotal is the group-room counterpart of BadgeTotal, kept as a
// separate policy instead of being folded into the badge.
func (u *UnreadCounter) GroupUnreadTotal(userID uint) (int64, error) {
	return u.unreadAcross(userID, models.RoomGroup)
}

func (u *UnreadCounter) unreadAcross(userID uint, kind models.RoomType) (int64, error) {
	rooms, err := u.rooms.RoomsByUser(userID, kind)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, r := range rooms {
		n, err := u.UnreadTotal(r.ID, userID)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
