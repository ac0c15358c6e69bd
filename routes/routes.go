package routes

import (
	"chat-engine/controllers"
	"chat-engine/middlewares"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(chat *controllers.ChatController, users *controllers.UserController) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	r.Use(cors.New(corsConfig))
	r.Use(middlewares.RequestID())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/register", users.Register)
	api.POST("/login", users.Login)

	authed := api.Group("")
	authed.Use(middlewares.TokenAuthMiddleware())
	authed.GET("/userinfo", users.GetUserInfo)

	chatAPI := authed.Group("/chat")
	{
		chatAPI.POST("/direct/:targetUserId", chat.OpenDirectRoom)
		chatAPI.POST("/random/:targetUserId", chat.OpenRandomRoom)
		chatAPI.GET("/rooms/:roomId/messages", chat.GetMessages)
		chatAPI.POST("/rooms/:roomId/messages", chat.SendMessage)
		chatAPI.POST("/rooms/:roomId/read", chat.MarkRoomRead)
		chatAPI.DELETE("/rooms/:roomId", chat.DeleteRoom)
		chatAPI.GET("/my-direct", chat.MyDirectRooms)
		chatAPI.GET("/my-groups", chat.MyGroupRooms)
		chatAPI.GET("/unread-count", chat.UnreadCount)
		chatAPI.POST("/groups/:groupId/join", chat.JoinGroup)
		chatAPI.POST("/groups/:groupId/leave", chat.LeaveGroup)
	}

	return r
}
