package router

import (
	"github.com/gin-gonic/gin"

	"lenflow/internal/config"
	"lenflow/internal/handler"
	"lenflow/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	sessionH *handler.SessionHandler,
	subjectH *handler.SubjectHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(&cfg.CORS))

	// Health checks
	r.GET("/healthz", healthH.Healthz)
	r.GET("/readyz", healthH.Readyz)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(&cfg.JWT))

	// Intake sessions
	sessions := v1.Group("/sessions")
	sessions.POST("", sessionH.Open)
	sessions.GET("/:id", sessionH.Get)
	sessions.DELETE("/:id", sessionH.Close)
	sessions.POST("/:id/documents", sessionH.UploadDocument)
	sessions.DELETE("/:id/documents/:docID", sessionH.RemoveDocument)
	sessions.PUT("/:id/active", sessionH.SwitchActive)
	sessions.PATCH("/:id/draft", sessionH.EditDraft)
	sessions.POST("/:id/submit", sessionH.Submit)

	// Persisted records
	records := v1.Group("/records")
	records.POST("/:id/edit-session", sessionH.EnterEditMode)

	// Subject reads
	subjects := v1.Group("/subjects")
	subjects.GET("/:id/dscr", subjectH.DSCR)
	subjects.GET("/:id/financials/export", subjectH.ExportFinancials)

	return r
}
