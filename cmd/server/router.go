package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/thereayou/cofoundry/internal/handlers"
	"github.com/thereayou/cofoundry/internal/middleware"
	"github.com/thereayou/cofoundry/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	profileH *handlers.ProfileHandler,
	projectH *handlers.ProjectHandler,
	roomH *handlers.RoomHandler,
	chatH *handlers.ChatHandler,
	wsH *handlers.WebSocketHandler,
) {
	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
	}

	// API endpoints
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.POST("/auth/logout", authH.Logout)
		api.POST("/auth/verify-email", authH.VerifyEmail)

		api.GET("/profiles/me", profileH.GetMe)
		api.PATCH("/profiles/me", profileH.UpdateMe)
		api.GET("/profiles/:id", profileH.GetProfile)

		api.POST("/projects", projectH.CreateProject)
		api.GET("/projects", projectH.ListProjects)
		api.GET("/projects/:id", projectH.GetProject)
		api.PATCH("/projects/:id", projectH.UpdateProject)
		api.POST("/projects/:id/applications", projectH.Apply)
		api.GET("/projects/:id/applications", projectH.ListApplications)
		api.GET("/applications/mine", projectH.ListMyApplications)
		api.POST("/applications/:id/accept", projectH.AcceptApplication)
		api.POST("/applications/:id/reject", projectH.RejectApplication)

		api.POST("/rooms/direct", roomH.CreateDirectRoom)
		api.GET("/rooms", roomH.GetMyRooms)
		api.GET("/rooms/:id", roomH.GetRoom)
		api.GET("/rooms/:id/members", roomH.GetRoomMembers)
		api.POST("/rooms/:id/archive", roomH.ArchiveRoom)
		api.POST("/rooms/:id/unarchive", roomH.UnarchiveRoom)
		api.POST("/rooms/:id/leave", roomH.LeaveRoom)

		api.GET("/rooms/:id/timeline", chatH.GetTimeline)
		api.GET("/rooms/:id/sendability", chatH.GetSendability)
		api.POST("/rooms/:id/messages", chatH.SendMessage)
		api.POST("/rooms/:id/messages/:messageID/read", chatH.MarkRead)
		api.GET("/rooms/:id/typing", chatH.GetTyping)
	}

	// WebSocket
	r.GET("/ws", middleware.WSAuthMiddleware(jwtMgr, rdb), wsH.HandleWebSocket)
}
