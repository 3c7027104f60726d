package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/voice-local/api-go/repository"
	"github.com/voice-local/api-go/utils"
)

const bearerType = "Bearer"

// Authenticate resolves a Bearer access token to the calling user. Requests
// without a Bearer header continue anonymously; a Bearer header that does
// not verify is rejected with 401 even on read-only routes.
func Authenticate(tokens *utils.TokenService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Fields(authHeader)
		if len(parts) == 0 || parts[0] != bearerType {
			c.Next()
			return
		}
		if len(parts) != 2 {
			unauthorized(c, "Authorization header must contain two space-delimited values")
			return
		}

		claims, err := tokens.Parse(parts[1], utils.TokenTypeAccess)
		if err != nil {
			unauthorized(c, "Given token not valid for any token type")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			unauthorized(c, "User not found")
			return
		}
		if err != nil {
			utils.GetLogger(c).WithError(err).Error("failed to load token user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "A server error occurred."})
			return
		}
		if !user.IsActive {
			unauthorized(c, "User is inactive")
			return
		}

		utils.SetUser(c, &utils.UserClaims{
			UserID:   user.ID,
			Username: user.Username,
			IsStaff:  user.IsStaff,
		})
		utils.SetLogger(c, utils.GetLogger(c).WithField("user_id", user.ID))

		c.Next()
	}
}

// RequireAuth rejects anonymous callers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.GetUser(c) == nil {
			unauthorized(c, "Authentication credentials were not provided.")
			return
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}
