package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harwick/wip-reporting/internal/http/middleware"
	"github.com/harwick/wip-reporting/internal/model"
	"github.com/harwick/wip-reporting/internal/service"
)

type Handler struct {
	auth         *service.AuthService
	projects     *service.ProjectService
	snapshots    *service.SnapshotService
	explanations *service.ExplanationService
	reports      *service.ReportService
	audits       *service.AuditService
	log          zerolog.Logger
}

func NewHandler(
	auth *service.AuthService,
	projects *service.ProjectService,
	snapshots *service.SnapshotService,
	explanations *service.ExplanationService,
	reports *service.ReportService,
	audits *service.AuditService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		auth:         auth,
		projects:     projects,
		snapshots:    snapshots,
		explanations: explanations,
		reports:      reports,
		audits:       audits,
		log:          log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	api := router.Group("/api/v1")
	api.POST("/auth/login", h.login)

	protected := api.Group("")
	protected.Use(authMiddleware)

	protected.GET("/users/me", h.currentUser)
	protected.GET("/users", h.listUsers)

	protected.GET("/fields", h.listFields)

	protected.POST("/projects", h.createProject)
	protected.GET("/projects", h.listProjects)
	protected.GET("/projects/:id", h.getProject)
	protected.PUT("/projects/:id", h.updateProject)
	protected.DELETE("/projects/:id", h.deleteProject)
	protected.GET("/projects/:id/trend", h.projectTrend)
	protected.GET("/projects/:id/comparison", h.comparison)

	protected.POST("/snapshots", h.createSnapshot)
	protected.GET("/snapshots", h.listSnapshots)
	protected.GET("/snapshots/latest", h.latestSnapshots)
	protected.GET("/snapshots/:id", h.getSnapshot)
	protected.PUT("/snapshots/:id", h.updateSnapshot)
	protected.DELETE("/snapshots/:id", h.deleteSnapshot)
	protected.POST("/snapshots/:id/explanations", h.createExplanation)
	protected.GET("/snapshots/:id/explanations", h.listExplanations)
	protected.GET("/snapshots/:id/explanations/latest", h.latestExplanations)

	protected.GET("/reports/dashboard", h.dashboard)
	protected.GET("/reports/export/excel", h.exportExcel)
	protected.GET("/reports/export/pdf", h.exportPDF)

	protected.GET("/audit", h.listAudit)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// requirePrincipal fetches the caller set by the auth middleware, answering
// 401 itself when absent.
func requirePrincipal(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
	}
	return principal, ok
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// parsePeriodQuery reads an optional "YYYY-MM" query parameter. A missing
// parameter is (nil, true); a malformed one reports 400 itself.
func parsePeriodQuery(c *gin.Context, name string) (*model.Period, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	period, err := model.ParsePeriod(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + ": expected YYYY-MM"})
		return nil, false
	}
	return &period, true
}
