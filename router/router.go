package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"saldoplus/api"
	"saldoplus/config"
	_ "saldoplus/docs"
	"saldoplus/middleware"
)

// SetupRouter wires all routes
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware())

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// authentication (no token required)
		authHandler := api.NewAuthHandler(cfg)
		passwordResetHandler := api.NewPasswordResetHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(10, middleware.DefaultLoginWindow), authHandler.Login)

			auth.POST("/password/request-reset", passwordResetHandler.RequestReset)
			auth.GET("/password/verify-token", passwordResetHandler.VerifyToken)
			auth.POST("/password/reset", passwordResetHandler.Reset)
		}

		// everything below requires a JWT
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			transactionHandler := api.NewTransactionHandler()
			transactions := authorized.Group("/transactions")
			{
				transactions.POST("", transactionHandler.Create)
				transactions.GET("", transactionHandler.List)
				transactions.GET("/pending", transactionHandler.Pending)
				transactions.GET("/history", transactionHandler.History)
				transactions.POST("/generate", transactionHandler.Generate)
				transactions.GET("/:id", transactionHandler.Get)
				transactions.PUT("/:id", transactionHandler.Update)
				transactions.DELETE("/:id", transactionHandler.Delete)
				transactions.POST("/:id/pay", transactionHandler.Pay)
				transactions.POST("/:id/skip", transactionHandler.Skip)
				transactions.POST("/:id/undo", transactionHandler.Undo)
			}

			categoryHandler := api.NewCategoryHandler()
			categories := authorized.Group("/categories")
			{
				categories.GET("", categoryHandler.List)
				categories.POST("", categoryHandler.Create)
				categories.PUT("/:id", categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete)
				categories.GET("/:id/usage", categoryHandler.Usage)
			}

			summaryHandler := api.NewSummaryHandler()
			summary := authorized.Group("/summary")
			{
				summary.GET("", summaryHandler.Get)
				summary.GET("/categories", summaryHandler.Categories)
			}

			backupHandler := api.NewBackupHandler()
			backup := authorized.Group("/backup")
			{
				backup.GET("/export", backupHandler.Export)
				backup.POST("/import", backupHandler.Import)
				backup.GET("/export/csv", backupHandler.ExportCSV)
				backup.GET("/export/excel", backupHandler.ExportExcel)
			}

			// administration
			adminHandler := api.NewAdminHandler()
			admin := authorized.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.GET("/users", adminHandler.ListUsers)
				admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
				admin.GET("/logs", adminHandler.ListLogs)
				admin.GET("/statistics", adminHandler.Statistics)
			}
		}
	}

	// health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware allows browser clients on other origins
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
