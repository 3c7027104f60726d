package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/voice-local/api-go/controllers"
)

func SetupValidationRoutes(api *gin.RouterGroup, validationController *controllers.ValidationController) {
	validation := api.Group("/validation")
	{
		validation.GET("/username/:username/", validationController.ValidateUsername)
		validation.GET("/email/:email/", validationController.ValidateEmail)
	}
}
