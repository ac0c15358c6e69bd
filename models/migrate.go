package models

import (
	"chat-engine/config"
	"log"
)

// Migrate creates or updates the engine tables.
func Migrate() {
	err := config.DB.AutoMigrate(
		&User{},
		&Room{},
		&Participant{},
		&Message{},
	)
	if err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}
