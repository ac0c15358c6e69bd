package services

import (
	"chat-engine/models"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) messageAt(t *testing.T, roomID, senderID uint, content string, at time.Time) {
	t.Helper()

	msg := models.Message{RoomID: roomID, SenderID: senderID, Content: content, CreatedAt: at}
	require.NoError(t, e.db.Create(&msg).Error)
}

func TestDirectRoomsOrdering(t *testing.T) {
	e := newTestEnv(t)
	me := e.user(t, "me", "Me")
	old := e.user(t, "old", "OldChat")
	silent := e.user(t, "silent", "Silent")
	fresh := e.user(t, "fresh", "FreshChat")

	roomOld, err := e.rooms.GetOrCreateDirectRoom(me, old)
	require.NoError(t, err)
	_, err = e.rooms.GetOrCreateDirectRoom(me, silent)
	require.NoError(t, err)
	roomFresh, err := e.rooms.GetOrCreateDirectRoom(me, fresh)
	require.NoError(t, err)

	e.messageAt(t, roomOld.ID, old.ID, "from 2021", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	e.messageAt(t, roomFresh.ID, fresh.ID, "from 2023", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))

	items, err := e.lists.DirectRooms(me)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Most recent first, the room with no messages at the end.
	assert.Equal(t, "FreshChat", items[0].PartnerNickname)
	assert.Equal(t, "OldChat", items[1].PartnerNickname)
	assert.Equal(t, "Silent", items[2].PartnerNickname)
	assert.Nil(t, items[2].LastMessageAt)
	assert.Empty(t, items[2].Preview)
}

func TestDirectRoomsUnreadAndPreview(t *testing.T) {
	e := newTestEnv(t)
	me := e.user(t, "me", "Me")
	bob := e.user(t, "bob", "Bob")

	room, err := e.rooms.GetOrCreateDirectRoom(me, bob)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := e.messages.Append(room, bob, "unread ping")
		require.NoError(t, err)
	}

	items, err := e.lists.DirectRooms(me)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, 4, items[0].UnreadCount)
	assert.Equal(t, "Bob", items[0].PartnerNickname)
	assert.Equal(t, "unread ping", items[0].Preview)
	require.NotNil(t, items[0].LastMessageAt)
}

func TestPreviewTruncation(t *testing.T) {
	long := strings.Repeat("a", 40)
	assert.Equal(t, strings.Repeat("a", 30)+"...", truncatePreview(long))
	assert.Equal(t, "short", truncatePreview("short"))

	// Exactly the limit stays untouched.
	exact := strings.Repeat("b", 30)
	assert.Equal(t, exact, truncatePreview(exact))

	// Runes, not bytes: multibyte content must not be split mid-character.
	korean := strings.Repeat("가", 35)
	got := truncatePreview(korean)
	assert.Equal(t, strings.Repeat("가", 30)+"...", got)
}

func TestMoreRecentComparator(t *testing.T) {
	t1 := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, moreRecent(&t2, &t1))
	assert.False(t, moreRecent(&t1, &t2))

	// Missing times always sort after present ones.
	assert.True(t, moreRecent(&t1, nil))
	assert.False(t, moreRecent(nil, &t1))
	assert.False(t, moreRecent(nil, nil))
}

type stubGroups map[uint]string

func (s stubGroups) GroupTitle(groupID uint) (string, bool) {
	title, ok := s[groupID]
	return title, ok
}

func TestGroupRoomsTitleResolution(t *testing.T) {
	e := newTestEnv(t)
	me := e.user(t, "me", "Me")

	require.NoError(t, e.rooms.JoinGroupRoom(1, "seed title", me))
	require.NoError(t, e.rooms.JoinGroupRoom(2, "orphan title", me))

	withResolver := NewRoomListProjector(e.rooms, e.messages, e.unread, e.users, stubGroups{1: "resolved title"})
	items, err := withResolver.GroupRooms(me)
	require.NoError(t, err)
	require.Len(t, items, 2)

	titles := map[uint]string{}
	for _, it := range items {
		titles[it.RoomID] = it.GroupTitle
	}
	room1, err := e.rooms.CreateGroupRoom(1, "seed title")
	require.NoError(t, err)
	room2, err := e.rooms.CreateGroupRoom(2, "orphan title")
	require.NoError(t, err)

	assert.Equal(t, "resolved title", titles[room1.ID])
	// Unknown to the resolver: fall back to the room's own name.
	assert.Equal(t, "orphan title", titles[room2.ID])
}

func TestGroupRoomsOrdering(t *testing.T) {
	e := newTestEnv(t)
	me := e.user(t, "me", "Me")

	require.NoError(t, e.rooms.JoinGroupRoom(1, "quiet", me))
	require.NoError(t, e.rooms.JoinGroupRoom(2, "busy", me))
	busy, err := e.rooms.CreateGroupRoom(2, "busy")
	require.NoError(t, err)

	_, err = e.messages.Append(busy, me, "latest activity")
	require.NoError(t, err)

	items, err := e.lists.GroupRooms(me)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "busy", items[0].GroupTitle)
	assert.Equal(t, "quiet", items[1].GroupTitle)
}
