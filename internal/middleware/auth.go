package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/thereayou/cofoundry/pkg/auth"
)

const ProfileIDKey = "profileID"

// AuthMiddleware проверяет JWT из заголовка Authorization
func AuthMiddleware(jwtManager *auth.JWTManager, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			abortUnauthorized(c, "missing or invalid token")
			return
		}

		authorize(c, jwtManager, redisClient, token)
	}
}

// WSAuthMiddleware — вариант для WebSocket: токен может прийти
// query-параметром, заголовки из браузера не прокинуть
func WSAuthMiddleware(jwtManager *auth.JWTManager, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			if fromHeader, err := auth.ExtractTokenFromHeader(c.Request); err == nil {
				token = fromHeader
			}
		}

		if token == "" {
			abortUnauthorized(c, "missing token")
			return
		}

		authorize(c, jwtManager, redisClient, token)
	}
}

// authorize гоняет токен через черный список и верификацию; при успехе
// кладёт profileID в контекст запроса. Недоступный Redis закрывает
// доступ, а не открывает.
func authorize(c *gin.Context, jwtManager *auth.JWTManager, redisClient *redis.Client, token string) {
	exists, err := redisClient.Exists(c.Request.Context(), "blacklist:"+token).Result()
	if err != nil || exists > 0 {
		abortUnauthorized(c, "token is blacklisted")
		return
	}

	claims, err := jwtManager.Verify(token)
	if err != nil {
		abortUnauthorized(c, "invalid token")
		return
	}

	profileID, err := uuid.Parse(claims.Subject)
	if err != nil {
		abortUnauthorized(c, "invalid profile id")
		return
	}

	c.Set(ProfileIDKey, profileID)
	c.Next()
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
	c.Abort()
}
