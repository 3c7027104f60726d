package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/voice-local/api-go/controllers"
	"github.com/voice-local/api-go/middleware"
)

func SetupIssueRoutes(api *gin.RouterGroup, issueController *controllers.IssueController, commentController *controllers.CommentController) {
	issues := api.Group("/issues")
	{
		issues.GET("/", issueController.ListIssues)
		issues.GET("/:id/", issueController.GetIssue)

		// Comments nested under their issue
		issues.GET("/:id/comments/", commentController.ListComments)
		issues.GET("/:id/comments/:commentId/", commentController.GetComment)

		write := issues.Group("", middleware.RequireAuth())
		write.POST("/", issueController.CreateIssue)
		write.PUT("/:id/", issueController.UpdateIssue)
		write.PATCH("/:id/", issueController.UpdateIssue)
		write.DELETE("/:id/", issueController.DeleteIssue)
		write.POST("/:id/vote/", issueController.Vote)

		write.POST("/:id/comments/", commentController.CreateComment)
		write.PUT("/:id/comments/:commentId/", commentController.UpdateComment)
		write.PATCH("/:id/comments/:commentId/", commentController.UpdateComment)
		write.DELETE("/:id/comments/:commentId/", commentController.DeleteComment)
	}
}
