package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/voice-local/api-go/controllers"
	"github.com/voice-local/api-go/middleware"
)

func SetupCategoryRoutes(api *gin.RouterGroup, categoryController *controllers.CategoryController) {
	categories := api.Group("/categories")
	{
		categories.GET("/", categoryController.List)
		categories.GET("/:id/", categoryController.Get)

		write := categories.Group("", middleware.RequireAuth())
		write.POST("/", categoryController.Create)
		write.PUT("/:id/", categoryController.Update)
		write.PATCH("/:id/", categoryController.Update)
		write.DELETE("/:id/", categoryController.Delete)
	}
}
