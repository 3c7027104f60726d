package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/voice-local/api-go/controllers"
	"github.com/voice-local/api-go/middleware"
)

func SetupUploadRoutes(api *gin.RouterGroup, uploadController *controllers.UploadController) {
	uploads := api.Group("/uploads", middleware.RequireAuth())
	{
		uploads.POST("/issue-image/", uploadController.IssueImageUploadURL)
	}
}
