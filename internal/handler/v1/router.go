package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skinsight/dermascan/internal/config"
	"github.com/skinsight/dermascan/internal/domain"
	"github.com/skinsight/dermascan/internal/handler/middleware"
	"github.com/skinsight/dermascan/pkg/auth"
	"github.com/skinsight/dermascan/pkg/metrics"
)

type RouterDeps struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Collector
	JWTManager *auth.JWTManager

	Auth     *AuthHandler
	Patients *PatientHandler
	Scans    *ScanHandler
	Reports  *ReportHandler
}

// NewRouter assembles the gin engine: global middleware, the health and
// metrics endpoints, and the versioned API surface.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.CORS(deps.Config.CORS))
	r.Use(middleware.RateLimit(deps.Config.RateLimit))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": deps.Config.App.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")

	// Unauthenticated auth endpoints.
	api.POST("/auth/login", deps.Auth.Login)
	api.POST("/auth/refresh", deps.Auth.Refresh)

	authed := api.Group("")
	authed.Use(middleware.Authenticate(deps.JWTManager))

	authed.GET("/auth/me", deps.Auth.Me)
	authed.PATCH("/auth/me", deps.Auth.UpdateMe)

	// Viewers get read access; mutations need a clinician (or admin).
	clinician := middleware.RequireRole(domain.RoleClinician)

	authed.GET("/patients", deps.Patients.List)
	authed.GET("/patients/:id", deps.Patients.Get)
	authed.POST("/patients", clinician, deps.Patients.Create)
	authed.PATCH("/patients/:id", clinician, deps.Patients.Update)
	authed.DELETE("/patients/:id", clinician, deps.Patients.Delete)

	authed.GET("/scans", deps.Scans.List)
	authed.GET("/scans/:id", deps.Scans.Get)
	authed.GET("/scans/body-locations", deps.Scans.BodyLocations)
	authed.POST("/scans/analyze", clinician, deps.Scans.Analyze)
	authed.DELETE("/scans/:id", clinician, deps.Scans.Delete)

	authed.GET("/reports/summary", deps.Reports.Summary)
	authed.GET("/reports/trend", deps.Reports.Trend)
	authed.GET("/reports/export/csv", deps.Reports.ExportCSV)
	authed.GET("/reports/export/pdf", deps.Reports.ExportPDF)

	return r
}
