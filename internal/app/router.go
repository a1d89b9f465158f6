package app

import (
	"blazequiz_backend/docs"
	"blazequiz_backend/internal/config"
	"blazequiz_backend/internal/middleware"
	"blazequiz_backend/internal/model"

	"blazequiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	// 战役与小节
	rg.GET("/campaigns", c.campaign.GetCampaigns)
	rg.GET("/campaigns/:id", c.campaign.GetCampaign)
	rg.GET("/sections/:sectionId/questions", c.campaign.GetSectionQuestions)

	// 答题
	rg.GET("/questions", c.quiz.GetQuestions)
	rg.POST("/questions/:questionId/submit", c.quiz.SubmitAnswer)

	// 进度与排行
	rg.GET("/progress", c.progress.GetProgress)
	rg.GET("/leaderboard", c.progress.GetLeaderboard)

	// 用户画像
	rg.GET("/profile", c.profile.GetProfile)
	rg.PUT("/profile/display-name", c.profile.UpdateDisplayName)
	rg.POST("/profile/avatar", c.profile.UploadAvatar)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/campaigns", c.admin.ListCampaigns)
		admin.GET("/campaigns/:id", c.admin.GetCampaignContent)
		admin.POST("/campaigns", c.admin.CreateCampaign)
		admin.PUT("/campaigns/:id", c.admin.UpdateCampaign)
		admin.DELETE("/campaigns/:id", c.admin.DeleteCampaign)
		admin.POST("/campaigns/:id/thumbnail", c.admin.UploadCampaignThumbnail)

		admin.POST("/sections", c.admin.CreateSection)
		admin.PUT("/sections/:id", c.admin.UpdateSection)
		admin.DELETE("/sections/:id", c.admin.DeleteSection)
		admin.PUT("/sections/:id/manual-unlock", c.admin.SetManualUnlock)

		admin.POST("/questions", c.admin.CreateQuestion)
		admin.PUT("/questions/:id", c.admin.UpdateQuestion)
		admin.DELETE("/questions/:id", c.admin.DeleteQuestion)

		admin.POST("/answers", c.admin.CreateAnswer)
		admin.PUT("/answers/:id", c.admin.UpdateAnswer)
		admin.DELETE("/answers/:id", c.admin.DeleteAnswer)
	}
}
