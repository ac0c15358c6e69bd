package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkReadMonotonic(t *testing.T) {
	e := newTestEnv(t)
	alice := e.user(t, "alice", "Alice")
	bob := e.user(t, "bob", "Bob")
	room, err := e.rooms.GetOrCreateDirectRoom(alice, bob)
	require.NoError(t, err)

	// Out-of-order marks: the watermark must end at the maximum.
	for _, id := range []uint{5, 3, 10} {
		require.NoError(t, e.readers.MarkRead(room.ID, alice.ID, uintPtr(id)))
	}

	p, err := e.readers.MyParticipant(room.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, p.LastReadMessageID)
	assert.EqualValues(t, 10, *p.LastReadMessageID)
}

func TestMarkReadNilIsNoop(t *testing.T) {
	e := newTestEnv(t)
	alice := e.user(t, "alice", "Alice")
	bob := e.user(t, "bob", "Bob")
	room, err := e.rooms.GetOrCreateDirectRoom(alice, bob)
	require.NoError(t, err)

	require.NoError(t, e.readers.MarkRead(room.ID, alice.ID, nil))

	p, err := e.readers.MyParticipant(room.ID, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, p.LastReadMessageID)
}

func TestMarkReadRequiresMembership(t *testing.T) {
	e := newTestEnv(t)
	alice := e.user(t, "alice", "Alice")
	bob := e.user(t, "bob", "Bob")
	carol := e.user(t, "carol", "Carol")
	room, err := e.rooms.GetOrCreateDirectRoom(alice, bob)
	require.NoError(t, err)

	err = e.readers.MarkRead(room.ID, carol.ID, uintPtr(1))
	assert.ErrorIs(t, err, ErrNotAParticipant)

	_, err = e.readers.MyParticipant(room.ID, carol.ID)
	assert.ErrorIs(t, err, ErrNotAParticipant)
}

func TestMarkReadConcurrentNeverRegresses(t *testing.T) {
	e := newTestEnv(t)
	alice := e.user(t, "alice", "Alice")
	bob := e.user(t, "bob", "Bob")
	room, err := e.rooms.GetOrCreateDirectRoom(alice, bob)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for id := uint(1); id <= 50; id++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			if err := e.readers.MarkRead(room.ID, alice.ID, uintPtr(id)); err != nil {
				t.Errorf("mark read %d: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	p, err := e.readers.MyParticipant(room.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, p.LastReadMessageID)
	assert.EqualValues(t, 50, *p.LastReadMessageID)
}
