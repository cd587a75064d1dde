package main

import (
	"fmt"
	"os"

	"github.com/harwick/wip-reporting/internal/auth"
	"github.com/harwick/wip-reporting/internal/config"
	"github.com/harwick/wip-reporting/internal/db"
	"github.com/harwick/wip-reporting/internal/excel"
	httphandler "github.com/harwick/wip-reporting/internal/http"
	"github.com/harwick/wip-reporting/internal/http/middleware"
	"github.com/harwick/wip-reporting/internal/logger"
	"github.com/harwick/wip-reporting/internal/pdf"
	"github.com/harwick/wip-reporting/internal/repository"
	"github.com/harwick/wip-reporting/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	userRepo := repository.NewUserRepository(database)
	projectRepo := repository.NewProjectRepository(database)
	snapshotRepo := repository.NewSnapshotRepository(database)
	explanationRepo := repository.NewExplanationRepository(database)
	auditRepo := repository.NewAuditRepository(database)

	tokenManager := auth.NewManager(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)
	excelGenerator := excel.NewGenerator()
	pdfGenerator := pdf.NewGenerator()

	handler := httphandler.NewHandler(
		service.NewAuthService(userRepo, tokenManager),
		service.NewProjectService(projectRepo, snapshotRepo, auditRepo),
		service.NewSnapshotService(snapshotRepo, projectRepo, auditRepo, cfg),
		service.NewExplanationService(explanationRepo, snapshotRepo, auditRepo),
		service.NewReportService(snapshotRepo, excelGenerator, pdfGenerator),
		service.NewAuditService(auditRepo),
		log,
	)

	authMiddleware := middleware.Auth(tokenManager)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.CORS.AllowedOrigins, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting wip reporting service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
