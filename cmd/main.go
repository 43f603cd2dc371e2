package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rmontano/testbank/config"
	"github.com/rmontano/testbank/database"
	adminctrl "github.com/rmontano/testbank/internal/controller/admin"
	teacherctrl "github.com/rmontano/testbank/internal/controller/teacher"
	"github.com/rmontano/testbank/internal/logger"
	"github.com/rmontano/testbank/internal/model"
	"github.com/rmontano/testbank/internal/repository"
	"github.com/rmontano/testbank/internal/service"
	"github.com/rmontano/testbank/internal/storage"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Test Bank API
// @version 1.0
// @description University test bank with AI question extraction from uploaded documents and formatted exam generation.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			storage.NewFSStore,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewDepartmentRepository,
			repository.NewSubjectRepository,
			repository.NewTeacherRepository,
			repository.NewQuestionnaireRepository,
			repository.NewQuestionRepository,
			repository.NewQuestionTypeRepository,
			repository.NewDownloadRepository,
		),

		fx.Provide(
			service.NewDocumentReader,
			service.NewPromptBuilder,
			service.NewGeminiLLMService,
			service.NewResponseParser,
			service.NewExtractionService,
			service.NewDocumentGenerator,
			service.NewQuestionService,
			service.NewQuestionnaireService,
			service.NewCatalogService,
		),

		fx.Provide(
			teacherctrl.NewQuestionnaireController,
			teacherctrl.NewQuestionController,
			adminctrl.NewAdminController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Pdf-Skipped"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	questionnaireCtrl *teacherctrl.QuestionnaireController,
	questionCtrl *teacherctrl.QuestionController,
	adminCtrl *adminctrl.AdminController,
) {
	api := router.Group("/api/v1")
	{
		api.POST("/questionnaires", questionnaireCtrl.Upload)
		api.GET("/questionnaires", questionnaireCtrl.List)
		api.GET("/questionnaires/:id", questionnaireCtrl.Get)
		api.DELETE("/questionnaires/:id", questionnaireCtrl.Delete)
		api.GET("/questionnaires/:id/download", questionnaireCtrl.Download)
		api.POST("/questionnaires/:id/retry", questionnaireCtrl.Retry)
		api.POST("/questionnaires/:id/generate", questionnaireCtrl.GenerateDocument)

		api.GET("/questionnaires/:id/questions", questionCtrl.ListByQuestionnaire)
		api.POST("/questionnaires/:id/questions", questionCtrl.AddManual)
		api.PUT("/questions/:question_id", questionCtrl.Update)
		api.DELETE("/questions/:question_id", questionCtrl.Delete)
		api.POST("/questions/:question_id/approve", questionCtrl.Approve)
		api.POST("/questions/:question_id/reject", questionCtrl.Reject)
	}

	adminAPI := router.Group("/api/v1/admin")
	{
		adminAPI.POST("/departments", adminCtrl.CreateDepartment)
		adminAPI.GET("/departments", adminCtrl.ListDepartments)
		adminAPI.POST("/subjects", adminCtrl.CreateSubject)
		adminAPI.GET("/subjects", adminCtrl.ListSubjects)
		adminAPI.POST("/teachers", adminCtrl.CreateTeacher)
		adminAPI.GET("/teachers", adminCtrl.ListTeachers)
		adminAPI.GET("/questionnaires", adminCtrl.ListQuestionnaires)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Test Bank API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// AutoMigrateDB creates the schema and seeds the fixed question type rows.
func AutoMigrateDB(db *gorm.DB, typeRepo repository.QuestionTypeRepository) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Department{},
		&model.Subject{},
		&model.Teacher{},
		&model.QuestionType{},
		&model.Questionnaire{},
		&model.Question{},
		&model.Download{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	if err := typeRepo.Seed(); err != nil {
		log.Error().Err(err).Msg("Seeding question types failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
