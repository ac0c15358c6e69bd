package services

import (
	"chat-engine/models"
	"sort"
	"time"
)

// PreviewLength is the room-list preview cut-off, in runes.
const PreviewLength = 30

// UserFinder resolves user ids to profiles. The engine does not own user
// accounts; callers hand in whatever directory they have.
type UserFinder interface {
	GetUserByID(id uint) (*models.User, error)
}

// GroupResolver resolves external group ids to display titles. Optional;
// the room's stored name is the fallback.
type GroupResolver interface {
	GroupTitle(groupID uint) (string, bool)
}

// DirectRoomItem is one row of the direct-room list.
type DirectRoomItem struct {
	RoomID          uint       `json:"room_id"`
	PartnerNickname string     `json:"partner_nickname"`
	Preview         string     `json:"preview"`
	UnreadCount     int64      `json:"unread_count"`
	LastMessageAt   *time.Time `json:"last_message_at"`
}

// GroupRoomItem is one row of the group-room list.
type GroupRoomItem struct {
	RoomID        uint       `json:"room_id"`
	GroupTitle    string     `json:"group_title"`
	Preview       string     `json:"preview"`
	UnreadCount   int64      `json:"unread_count"`
	LastMessageAt *time.Time `json:"last_message_at"`
}

// RoomListProjector assembles the per-room list views out of the
// directory, the message store and the unread counter.
type RoomListProjector struct {
	rooms    *RoomDirectory
	messages *MessageStore
	unread   *UnreadCounter
	users    UserFinder
	groups   GroupResolver // may be nil
}

func NewRoomListProjector(rooms *RoomDirectory, messages *MessageStore, unread *UnreadCounter, users UserFinder, groups GroupResolver) *RoomListProjector {
	return &RoomListProjector{rooms: rooms, messages: messages, unread: unread, users: users, groups: groups}
}

// truncatePreview cuts a message body down to the list preview length.
// Counted in runes so multibyte nicknames and bodies don't get split.
func truncatePreview(content string) string {
	r := []rune(content)
	if len(r) > PreviewLength {
		return string(r[:PreviewLength]) + "..."
	}
	return content
}

// moreRecent orders room-list rows: later last-message time first, rooms
// without any message last.
func moreRecent(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}

// DirectRooms lists the viewer's direct rooms, most recent first.
func (p *RoomListProjector) DirectRooms(viewer models.User) ([]DirectRoomItem, error) {
	rooms, err := p.rooms.RoomsByUser(viewer.ID, models.RoomDirect)
	if err != nil {
		return nil, err
	}

	items := make([]DirectRoomItem, 0, len(rooms))
	for _, room := range rooms {
		unread, err := p.unread.UnreadTotal(room.ID, viewer.ID)
		if err != nil {
			return nil, err
		}
		preview, lastAt, err := p.lastMessageInfo(room.ID)
		if err != nil {
			return nil, err
		}
		partner, err := p.directPartner(room.ID, viewer.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, DirectRoomItem{
			RoomID:          room.ID,
			PartnerNickname: partner,
			Preview:         preview,
			UnreadCount:     unread,
			LastMessageAt:   lastAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return moreRecent(items[i].LastMessageAt, items[j].LastMessageAt)
	})
	return items, nil
}

// GroupRooms lists the viewer's group rooms, most recent first. Titles
// come from the external group when a resolver is wired, otherwise from
// the room name seeded at creation.
func (p *RoomListProjector) GroupRooms(viewer models.User) ([]GroupRoomItem, error) {
	rooms, err := p.rooms.RoomsByUser(viewer.ID, models.RoomGroup)
	if err != nil {
		return nil, err
	}

	items := make([]GroupRoomItem, 0, len(rooms))
	for _, room := range rooms {
		unread, err := p.unread.UnreadTotal(room.ID, viewer.ID)
		if err != nil {
			return nil, err
		}
		preview, lastAt, err := p.lastMessageInfo(room.ID)
		if err != nil {
			return nil, err
		}

		title := room.Name
		if p.groups != nil && room.GroupID != nil {
			if t, ok := p.groups.GroupTitle(*room.GroupID); ok {
				title = t
			}
		}

		items = append(items, GroupRoomItem{
			RoomID:        room.ID,
			GroupTitle:    title,
			Preview:       preview,
			UnreadCount:   unread,
			LastMessageAt: lastAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return moreRecent(items[i].LastMessageAt, items[j].LastMessageAt)
	})
	return items, nil
}

func (p *RoomListProjector) lastMessageInfo(roomID uint) (string, *time.Time, error) {
	last, err := p.messages.LastMessage(roomID)
	if err != nil {
		return "", nil, err
	}
	if last == nil {
		return "", nil, nil
	}
	at := last.CreatedAt
	return truncatePreview(last.Content), &at, nil
}

// directPartner names the other participant of a two-party room.
func (p *RoomListProjector) directPartner(roomID, viewerID uint) (string, error) {
	parts, err := p.rooms.Participants(roomID)
	if err != nil {
		return "", err
	}
	for _, part := range parts {
		if part.UserID == viewerID {
			continue
		}
		u, err := p.users.GetUserByID(part.UserID)
		if err != nil {
			return "", err
		}
		return u.Nickname, nil
	}
	return "", nil
}
