package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/voice-local/api-go/config"
	"github.com/voice-local/api-go/controllers"
	"github.com/voice-local/api-go/metrics"
	"github.com/voice-local/api-go/middleware"
	"github.com/voice-local/api-go/repository"
	"github.com/voice-local/api-go/utils"
)

// Dependencies are the services the HTTP layer is built on. Images and
// Google may be nil when those integrations are not configured.
type Dependencies struct {
	Users      repository.UserRepository
	Categories repository.CategoryRepository
	Issues     repository.IssueRepository
	Comments   repository.CommentRepository
	Votes      repository.VoteRepository
	Tokens     *utils.TokenService
	Images     controllers.ImagePresigner
	Google     controllers.GoogleAuthenticator
}

// NewRouter builds the engine with the global middleware chain and all routes.
func NewRouter(cfg *config.Config, log *logrus.Logger, deps Dependencies) *gin.Engine {
	utils.RegisterValidators()

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			utils.GetLogger(c).WithField("panic", recovered).Error("panic recovered")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "A server error occurred."})
		}),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	SetupRoutes(r, deps)
	return r
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	// Initialize controllers
	authController := controllers.NewAuthController(deps.Users, deps.Tokens, deps.Google)
	userController := controllers.NewUserController(deps.Users)
	categoryController := controllers.NewCategoryController(deps.Categories)
	issueController := controllers.NewIssueController(deps.Issues, deps.Categories, deps.Votes)
	commentController := controllers.NewCommentController(deps.Comments)
	uploadController := controllers.NewUploadController(deps.Images)
	validationController := controllers.NewValidationController(deps.Users)

	r.GET("/health/", controllers.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Token endpoints ignore any Authorization header.
	SetupAuthRoutes(r.Group("/api/auth"), authController)

	api := r.Group("/api")
	api.Use(middleware.Authenticate(deps.Tokens, deps.Users))
	{
		api.GET("/health/", controllers.Health)

		SetupUserRoutes(api, userController)
		SetupValidationRoutes(api, validationController)
		SetupCategoryRoutes(api, categoryController)
		SetupIssueRoutes(api, issueController, commentController)
		SetupUploadRoutes(api, uploadController)
	}
}
