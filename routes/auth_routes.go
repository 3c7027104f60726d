package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/voice-local/api-go/controllers"
)

func SetupAuthRoutes(auth *gin.RouterGroup, authController *controllers.AuthController) {
	auth.POST("/login/", authController.Login)
	auth.POST("/refresh/", authController.RefreshToken)
	auth.POST("/register/", authController.Register)
	auth.POST("/google/", authController.GoogleLogin)
}
