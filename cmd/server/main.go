package main

import (
	"log"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/config"
	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/database"
	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/handlers"
	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/middleware"
	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/services"

	_ "github.com/blslawas2025/Basic-Life-Support-2025-sub004/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           BLS Training Records API
// @version         1.0
// @description     Training-record management for the Basic Life Support certification program: assessment aggregation, certification decisions and certificate lifecycle.
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	authService := services.NewAuthService(db, cfg.JWTSecret)
	participantService := services.NewParticipantService(db)
	assessmentService := services.NewAssessmentService(db)
	resultService := services.NewResultService(db)
	certificateService := services.NewCertificateService(db)

	authHandler := handlers.NewAuthHandler(authService)
	participantHandler := handlers.NewParticipantHandler(participantService)
	assessmentHandler := handlers.NewAssessmentHandler(assessmentService)
	resultHandler := handlers.NewResultHandler(resultService)
	certificateHandler := handlers.NewCertificateHandler(certificateService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		participants := api.Group("/participants")
		participants.Use(middleware.JWTAuth(authService))
		{
			participants.GET("", participantHandler.ListParticipants)
			participants.POST("", participantHandler.CreateParticipant)
			participants.GET("/:id", participantHandler.GetParticipant)
			participants.PUT("/:id", participantHandler.UpdateParticipant)
			participants.DELETE("/:id", participantHandler.DeleteParticipant)
		}

		assessments := api.Group("/assessments")
		assessments.Use(middleware.JWTAuth(authService))
		{
			assessments.POST("/tests", assessmentHandler.RecordTest)
			assessments.POST("/checklists", assessmentHandler.RecordChecklist)
		}

		results := api.Group("/results")
		results.Use(middleware.JWTAuth(authService))
		{
			results.GET("", resultHandler.ListResults)
			results.GET("/:id", resultHandler.GetResult)
		}

		certificates := api.Group("/certificates")
		certificates.Use(middleware.JWTAuth(authService))
		{
			certificates.GET("", certificateHandler.ListCertificates)
			certificates.POST("/sync", certificateHandler.SyncCertificates)
			certificates.POST("/:id/issue", certificateHandler.IssueCertificate)
			certificates.POST("/:id/approve", certificateHandler.ApproveCertificate)
			certificates.POST("/:id/revoke", certificateHandler.RevokeCertificate)
			certificates.GET("/:id/data", certificateHandler.CertificateRenderData)
			certificates.GET("/:id/transitions", certificateHandler.CertificateTransitions)
			certificates.POST("/bulk/issue", certificateHandler.BulkIssue)
			certificates.POST("/bulk/approve", certificateHandler.BulkApprove)
			certificates.POST("/bulk/revoke", certificateHandler.BulkRevoke)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
