package services

import (
	"chat-engine/models"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the engine schema. The
// pool is pinned to a single connection: that keeps the :memory: database
// private to the test and serializes SQLite access, while the races under
// test still happen at the service layer.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.User{}, &models.Room{}, &models.Participant{}, &models.Message{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db       *gorm.DB
	users    *UserService
	rooms    *RoomDirectory
	messages *MessageStore
	readers  *ReadTracker
	unread   *UnreadCounter
	lists    *RoomListProjector
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	messages := NewMessageStore(db)
	rooms := NewRoomDirectory(db, messages)
	readers := NewReadTracker(db)
	unread := NewUnreadCounter(rooms, messages, readers)
	users := NewUserService(db)
	lists := NewRoomListProjector(rooms, messages, unread, users, nil)
	return &testEnv{
		db:       db,
		users:    users,
		rooms:    rooms,
		messages: messages,
		readers:  readers,
		unread:   unread,
		lists:    lists,
	}
}

func (e *testEnv) user(t *testing.T, username, nickname string) models.User {
	t.Helper()

	u := models.User{Username: username, Nickname: nickname, Password: "x"}
	if err := e.users.CreateUser(&u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func uintPtr(v uint) *uint {
	return &v
}
