package app

import (
	"exam_platform_backend/docs"
	"exam_platform_backend/internal/config"
	"exam_platform_backend/internal/middleware"
	"exam_platform_backend/internal/model"
	"exam_platform_backend/pkg/monitoring"

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
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.ActivityMiddleware(repos.user))
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

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.auth.GetProfile)

	exams := group.Group("/exams")
	{
		exams.GET("", c.exam.ListExams)
		exams.GET("/:id", c.exam.GetExam)
		exams.POST("/submit", c.exam.SubmitExam)
	}

	results := group.Group("/results")
	{
		results.GET("/me", c.result.MyResults)
		results.GET("/:id", c.result.GetResult)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Admin),
	)
	{
		exams := admin.Group("/exams")
		exams.POST("", c.adminExam.CreateExam)
		exams.GET("", c.adminExam.ListExams)
		exams.GET("/:id", c.adminExam.GetExam)
		exams.PUT("/:id", c.adminExam.UpdateExam)
		exams.DELETE("/:id", c.adminExam.DeleteExam)
		exams.GET("/:id/results", c.adminExam.ListExamResults)

		exams.GET("/:id/questions", c.adminExam.ListQuestions)
		exams.POST("/:id/questions", c.adminExam.AddQuestion)
		exams.PUT("/:id/questions/:questionId", c.adminExam.UpdateQuestion)
		exams.DELETE("/:id/questions/:questionId", c.adminExam.DeleteQuestion)
	}
}
