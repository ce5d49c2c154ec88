package app

import (
	"ai_academy_backend/docs"
	"ai_academy_backend/internal/config"
	"ai_academy_backend/internal/middleware"
	"ai_academy_backend/pkg/monitoring"
	"ai_academy_backend/pkg/security"
	"ai_academy_backend/pkg/tracing"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	users := api.Group("/users")
	{
		users.GET("/", c.user.ListUsers)
		users.POST("/", c.user.CreateUser)
		users.GET("/search/", c.user.SearchUsers)
		users.GET("/:id/", c.user.GetUser)
		users.PUT("/:id/", c.user.UpdateUser)
		users.PATCH("/:id/", c.user.UpdateUser)
		users.DELETE("/:id/", c.user.DeleteUser)
		users.GET("/:id/detail_with_progress/", c.user.DetailWithProgress)
	}

	modules := api.Group("/modules")
	{
		modules.GET("/", c.module.ListModules)
		modules.POST("/", c.module.CreateModule)
		modules.GET("/all_with_inactive/", c.module.ListAllModules)
		modules.GET("/:id/", c.module.GetModule)
		modules.PUT("/:id/", c.module.UpdateModule)
		modules.PATCH("/:id/", c.module.UpdateModule)
		modules.DELETE("/:id/", c.module.DeleteModule)
	}

	lessons := api.Group("/lessons")
	{
		lessons.GET("/", c.lesson.ListLessons)
		lessons.POST("/", c.lesson.CreateLesson)
		lessons.GET("/by_module/", c.lesson.ListByModule)
		lessons.GET("/:id/", c.lesson.GetLesson)
		lessons.PUT("/:id/", c.lesson.UpdateLesson)
		lessons.PATCH("/:id/", c.lesson.UpdateLesson)
		lessons.DELETE("/:id/", c.lesson.DeleteLesson)
	}

	questions := api.Group("/questions")
	{
		questions.GET("/", c.question.ListQuestions)
		questions.POST("/", c.question.CreateQuestion)
		questions.GET("/by_module/", c.question.ListByModule)
		questions.GET("/:id/", c.question.GetQuestion)
		questions.PUT("/:id/", c.question.UpdateQuestion)
		questions.PATCH("/:id/", c.question.UpdateQuestion)
		questions.DELETE("/:id/", c.question.DeleteQuestion)
	}

	answers := api.Group("/answers")
	{
		answers.GET("/", c.question.ListAnswers)
		answers.POST("/", c.question.CreateAnswer)
		answers.GET("/:id/", c.question.GetAnswer)
		answers.PUT("/:id/", c.question.UpdateAnswer)
		answers.PATCH("/:id/", c.question.UpdateAnswer)
		answers.DELETE("/:id/", c.question.DeleteAnswer)
	}

	progress := api.Group("/progress")
	{
		progress.GET("/", c.progress.ListProgress)
		progress.POST("/", c.progress.CreateProgress)
		progress.GET("/by_user/", c.progress.ListByUser)
		progress.POST("/update_or_create/", c.progress.UpdateOrCreate)
		progress.GET("/:id/", c.progress.GetProgress)
		progress.PUT("/:id/", c.progress.UpdateProgress)
		progress.PATCH("/:id/", c.progress.UpdateProgress)
		progress.DELETE("/:id/", c.progress.DeleteProgress)
	}

	results := api.Group("/test-results")
	{
		results.GET("/", c.testResult.ListResults)
		results.POST("/", c.testResult.CreateResult)
		results.GET("/by_user/", c.testResult.ListByUser)
		results.GET("/:id/", c.testResult.GetResult)
		results.PUT("/:id/", c.testResult.UpdateResult)
		results.PATCH("/:id/", c.testResult.UpdateResult)
		results.DELETE("/:id/", c.testResult.DeleteResult)
	}

	agents := api.Group("/ai-agents")
	{
		agents.GET("/", c.aiAgent.ListAgents)
		agents.POST("/", c.aiAgent.CreateAgent)
		agents.GET("/by_user/", c.aiAgent.GetByUser)
		agents.GET("/:id/", c.aiAgent.GetAgent)
		agents.PUT("/:id/", c.aiAgent.UpdateAgent)
		agents.PATCH("/:id/", c.aiAgent.UpdateAgent)
		agents.DELETE("/:id/", c.aiAgent.DeleteAgent)
	}

	agentQuestions := api.Group("/ai-agent-questions")
	{
		agentQuestions.GET("/", c.aiAgent.ListQuestions)
		agentQuestions.GET("/:id/", c.aiAgent.GetQuestion)
	}
}
