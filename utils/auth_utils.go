package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserClaims is the authenticated caller as seen by handlers.
type UserClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
}

type contextKey string

const (
	UserContextKey   contextKey = "user"
	LoggerContextKey contextKey = "logger"
)

// GetUser returns the authenticated caller, or nil for anonymous requests.
func GetUser(c *gin.Context) *UserClaims {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if userClaims, ok := user.(*UserClaims); ok {
		return userClaims
	}
	return nil
}

func SetUser(c *gin.Context, claims *UserClaims) {
	c.Set(string(UserContextKey), claims)
}

func SetLogger(c *gin.Context, entry *logrus.Entry) {
	c.Set(string(LoggerContextKey), entry)
}

// GetLogger returns the request scoped logger set by the request logging
// middleware, falling back to the standard logrus logger.
func GetLogger(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(string(LoggerContextKey)); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
