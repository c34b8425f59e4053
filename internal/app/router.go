package app

import (
	"classwork_backend/docs"
	"classwork_backend/internal/config"
	"classwork_backend/internal/middleware"
	"classwork_backend/internal/model"
	"classwork_backend/pkg/monitoring"
	"classwork_backend/pkg/security"
	"classwork_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	router.Use(security.RateLimiter(maxRequests, cfg.RateLimit.Window()))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		// 双角色通用
		authGroup.GET("/notifications", c.notification.List)
		authGroup.GET("/notifications/unread-count", c.notification.UnreadCount)
		authGroup.PATCH("/notifications/:id/read", c.notification.MarkRead)

		// 学生端
		student := authGroup.Group("/student")
		student.Use(middleware.RoleMiddleware(model.Student))
		{
			student.POST("/assignments/:assignmentId/submissions", c.submission.Submit)
			student.GET("/assignments/:assignmentId/submission", c.submission.GetMine)
			student.POST("/submissions/:id/redo-requests", c.redo.RequestRedo)
			student.POST("/uploads", c.submission.UploadAttachment)
		}

		// 教师端
		teacher := authGroup.Group("/teacher")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.GET("/assignments/:assignmentId/submissions", c.submission.ListByAssignment)
			teacher.POST("/submissions/:id/grade", c.grade.Grade)
			teacher.GET("/submissions/:id/redo-requests", c.redo.History)
			teacher.POST("/redo-requests/:id/decision", c.redo.Decide)
		}
	}
}
