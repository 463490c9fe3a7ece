package routes

import (
	"github.com/openfieldhq/openfield-collect-api/internal/application/usecases"
	"github.com/openfieldhq/openfield-collect-api/internal/domain/entities"
	"github.com/openfieldhq/openfield-collect-api/internal/domain/repositories"
	"github.com/openfieldhq/openfield-collect-api/internal/infrastructure/cache"
	"github.com/openfieldhq/openfield-collect-api/internal/interfaces/http/handlers"
	"github.com/openfieldhq/openfield-collect-api/internal/interfaces/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Add performance middleware
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Add ETag support for efficient caching
	app.Use(etag.New())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Índice da API para descoberta rápida
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name": "Openfield Collect API",
			"endpoints": fiber.Map{
				"facilities": "/facilities",
				"templates":  "/templates",
				"surveys":    "/surveys",
				"qa":         "/qa/alerts",
				"exports":    "/exports/surveys.csv",
			},
		})
	})

	// Enumerações aceitas pelo app de coleta
	app.Get("/config/enumerator", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"answer_sources":    entities.AllowedAnswerSources,
			"confidence_levels": entities.AllowedConfidences,
			"missing_reasons":   entities.AllowedMissingReasons,
			"question_types": []string{
				entities.QuestionTypeText,
				entities.QuestionTypeYesNo,
				entities.QuestionTypeNumber,
			},
		})
	})

	// Repositories
	facilityRepo := repositories.NewFacilityRepository(db)
	templateRepo := repositories.NewTemplateRepository(db)
	surveyRepo := repositories.NewSurveyRepository(db)
	answerRepo := repositories.NewAnswerRepository(db)

	// Cache compartilhado
	appCache := cache.New()

	// Use Cases
	facilityUseCase := usecases.NewFacilityUseCase(facilityRepo)
	templateUseCase := usecases.NewTemplateUseCase(templateRepo, appCache)
	surveyUseCase := usecases.NewSurveyUseCase(surveyRepo, answerRepo, facilityRepo, templateRepo)
	qualityUseCase := usecases.NewQualityUseCase(surveyRepo, answerRepo, facilityRepo)
	exportUseCase := usecases.NewExportUseCase(qualityUseCase, facilityRepo, surveyRepo, answerRepo)

	// Handlers
	facilityHandler := handlers.NewFacilityHandler(facilityUseCase)
	templateHandler := handlers.NewTemplateHandler(templateUseCase)
	surveyHandler := handlers.NewSurveyHandler(surveyUseCase, qualityUseCase)
	qaHandler := handlers.NewQAHandler(qualityUseCase)
	exportHandler := handlers.NewExportHandler(exportUseCase)
	authHandler := handlers.NewAuthHandler()

	// Routes
	groups := middleware.SetupRouteGroups(app, middleware.RequireSupervisor())

	// Autenticação do supervisor
	groups.Public.Post("/auth/login", authHandler.Login)

	// Facilities routes
	groups.Public.Get("/facilities", facilityHandler.GetFacilities)
	groups.Public.Post("/facilities", facilityHandler.CreateFacility)
	groups.Public.Get("/facilities/search", facilityHandler.SearchFacilities)
	groups.Public.Get("/facilities/:id", facilityHandler.GetFacility)

	// Templates routes
	groups.Public.Get("/templates", templateHandler.GetTemplates)
	groups.Public.Post("/templates", templateHandler.CreateTemplate)
	groups.Public.Get("/templates/:id/questions", templateHandler.GetTemplateQuestions)
	groups.Public.Post("/templates/:id/questions", templateHandler.AddTemplateQuestion)

	// Surveys routes
	groups.Public.Get("/surveys", surveyHandler.GetSurveys)
	groups.Public.Post("/surveys", surveyHandler.CreateSurvey)
	groups.Public.Get("/surveys/drafts", surveyHandler.GetDrafts)
	groups.Public.Get("/surveys/:id", surveyHandler.GetSurveyDetails)
	groups.Public.Post("/surveys/:id/answers", surveyHandler.AddManualAnswer)
	groups.Public.Put("/surveys/:id/answers/:question_id", surveyHandler.UpsertTemplateAnswer)
	groups.Public.Post("/surveys/:id/complete", surveyHandler.CompleteSurvey)

	// QA routes (supervisor)
	groups.QA.Get("/alerts", qaHandler.GetQAAlerts)
	groups.QA.Get("/enumerators", qaHandler.GetEnumeratorPerformance)
	groups.QA.Get("/dashboard", qaHandler.GetSupervisorDashboard)

	// Exports routes (supervisor)
	groups.Exports.Get("/qa-alerts.csv", exportHandler.ExportQAAlertsCSV)
	groups.Exports.Get("/facilities.csv", exportHandler.ExportFacilitiesCSV)
	groups.Exports.Get("/surveys.csv", exportHandler.ExportSurveysCSV)
	groups.Exports.Get("/surveys.json", exportHandler.ExportSurveysJSON)
	groups.Exports.Get("/surveys/:id.json", exportHandler.ExportSurveyJSON)
}
