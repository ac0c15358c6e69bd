package main

import (
	"chat-engine/config"
	"chat-engine/controllers"
	"chat-engine/models"
	"chat-engine/routes"
	"chat-engine/services"
	"log"
)

func main() {
	config.InitDB()
	models.Migrate()

	messages := services.NewMessageStore(config.DB)
	rooms := services.NewRoomDirectory(config.DB, messages)
	readers := services.NewReadTracker(config.DB)
	unread := services.NewUnreadCounter(rooms, messages, readers)
	users := services.NewUserService(config.DB)
	lists := services.NewRoomListProjector(rooms, messages, unread, users, nil)

	chat := &controllers.ChatController{
		Rooms:    rooms,
		Messages: messages,
		Readers:  readers,
		Unread:   unread,
		Lists:    lists,
		Users:    users,
	}
	userCtrl := &controllers.UserController{Users: users}

	r := routes.RegisterRoutes(chat, userCtrl)
	if err := r.Run(config.ServerAddr()); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
