package router

import (
	"time"

	"estudio/api"
	"estudio/config"
	_ "estudio/docs"
	"estudio/middleware"
	"estudio/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter monta as rotas da aplicação
func SetupRouter(cfg *config.Config) *gin.Engine {
	// modo de execução (debug/release)
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS
	r.Use(CORSMiddleware())

	// Documentação Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Rotas da API
	v1 := r.Group("/api/v1")
	{
		// Autenticação (sem login, com limite de tentativas por IP)
		authHandler := api.NewAuthHandler(cfg, service.NewCredentialVerifier())
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.LoginRateLimit(5, time.Minute), authHandler.Login)
		}

		// Rotas protegidas por JWT
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// Clientes
			clientHandler := api.NewClientHandler()
			clients := authorized.Group("/clients")
			{
				clients.POST("", clientHandler.Create)
				clients.GET("", clientHandler.List)
				clients.GET("/:id", clientHandler.Get)
				clients.PUT("/:id", clientHandler.Update)
				clients.DELETE("/:id", clientHandler.Delete)
			}

			// Catálogo de serviços
			serviceHandler := api.NewServiceHandler()
			services := authorized.Group("/services")
			{
				services.POST("", serviceHandler.Create)
				services.GET("", serviceHandler.List)
				services.GET("/:id", serviceHandler.Get)
				services.PUT("/:id", serviceHandler.Update)
				services.DELETE("/:id", serviceHandler.Delete)
			}

			// Categorias de lançamento
			categoryHandler := api.NewCategoryHandler()
			categories := authorized.Group("/categories")
			{
				categories.POST("", categoryHandler.Create)
				categories.GET("", categoryHandler.List)
				categories.PUT("/:id", categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete)
			}

			// Caixa (receitas e despesas)
			transactionHandler := api.NewTransactionHandler()
			transactions := authorized.Group("/transactions")
			{
				transactions.POST("", transactionHandler.Create)
				transactions.GET("", transactionHandler.List)
				transactions.GET("/:id", transactionHandler.Get)
				transactions.PUT("/:id", transactionHandler.Update)
				transactions.DELETE("/:id", transactionHandler.Delete)
			}

			// Agendamentos
			appointmentHandler := api.NewAppointmentHandler()
			appointments := authorized.Group("/appointments")
			{
				appointments.POST("", appointmentHandler.Create)
				appointments.GET("", appointmentHandler.List)
				appointments.GET("/:id", appointmentHandler.Get)
				appointments.PUT("/:id", appointmentHandler.Update)
				appointments.DELETE("/:id", appointmentHandler.Delete)
			}

			// Painel
			dashboardHandler := api.NewDashboardHandler()
			authorized.GET("/dashboard", dashboardHandler.Get)

			// Relatórios
			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/excel", exportHandler.ExportExcel)
			}
		}
	}

	// Verificação de saúde
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware middleware de CORS
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
