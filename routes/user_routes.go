package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/voice-local/api-go/controllers"
	"github.com/voice-local/api-go/middleware"
)

func SetupUserRoutes(api *gin.RouterGroup, userController *controllers.UserController) {
	api.GET("/me/", middleware.RequireAuth(), userController.Me)
}
