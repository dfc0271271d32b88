package server

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/thereayou/cofoundry/internal/chat"
	"github.com/thereayou/cofoundry/internal/database"
	"github.com/thereayou/cofoundry/internal/handlers"
	"github.com/thereayou/cofoundry/internal/websocket"
	"github.com/thereayou/cofoundry/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Chat       *chat.Service
	Hub        *websocket.Hub

	log zerolog.Logger
}

func NewServer() *Server {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()

	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Info().Msg(".env not found, using environment variables")
		}
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(); err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}

	jwtMgr := auth.NewJWTManager(
		os.Getenv("JWT_SECRET"),
		24*time.Hour,
	)

	// Чат-ядро: лог сообщений, политика доступа, пайплайн отправки,
	// симуляторы присутствия. Дни таймлайна режем по зоне сервера.
	chatSvc := chat.NewService(dbConn, time.Local, log)

	hub := websocket.NewHub(chatSvc, log)
	go hub.Run()

	authH := handlers.NewAuthHandler(dbConn, jwtMgr, rdb)
	profileH := handlers.NewProfileHandler(dbConn)
	projectH := handlers.NewProjectHandler(dbConn)
	roomH := handlers.NewRoomHandler(dbConn, chatSvc, hub)
	chatH := handlers.NewChatHandler(dbConn, chatSvc, hub)
	messageH := handlers.NewMessageHandler(dbConn, chatSvc, hub)
	wsH := handlers.NewWebSocketHandler(hub, messageH)

	router := gin.Default()
	APIEndpoints(router, jwtMgr, rdb, authH, profileH, projectH, roomH, chatH, wsH)

	return &Server{
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Chat:       chatSvc,
		Hub:        hub,
		log:        log,
	}
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	s.log.Info().Str("port", port).Msg("server starting")
	if err := s.Router.Run(":" + port); err != nil {
		s.log.Fatal().Err(err).Msg("server run error")
	}
}

func (s *Server) Shutdown() {
	s.Hub.Stop()
	s.Chat.Close()
}
