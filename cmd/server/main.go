package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"srv_contratos/config"
	"srv_contratos/db"
	"srv_contratos/handlers"
	"srv_contratos/middleware"
	"srv_contratos/models"
	"srv_contratos/services"
	"srv_contratos/services/docconv"
	"srv_contratos/services/jobs"
	"srv_contratos/services/postal"
	"srv_contratos/telemetry"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.SetLevel(logLevel(cfg.LogLevel))

	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.OTLPEndpoint, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}

	// Initialize database
	database, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close(database)

	// Run migrations
	if err := db.AutoMigrate(database, models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	storage := services.NewStorage(cfg)
	drafts := services.NewDraftService(database, storage, cfg.ScopeToOwner)
	auth := services.NewAuthService(database, cfg.JWTSecret, cfg.AccessTokenLifetime, cfg.RefreshTokenLifetime)

	if err := services.SeedAdminFromEnv(context.Background(), database, auth); err != nil {
		log.Errorf("[SEED] %v", err)
	}
	if err := services.SeedDefaultPartyRoleTypes(context.Background(), database); err != nil {
		log.Errorf("[SEED] %v", err)
	}

	h := handlers.New(
		services.NewEntityService(database),
		services.NewCatalogService(database),
		drafts,
		services.NewAttachmentService(database, storage, drafts),
		auth,
		postal.NewClient(cfg.ViaCEPBaseURL, cfg.ViaCEPTimeout, cfg.ViaCEPCacheTTL),
		docconv.NewPandocConverter(cfg.PandocPath, cfg.ScratchDir, cfg.ConverterTimeout),
		docconv.NewPDFRenderer(cfg.ChromePath, cfg.ConverterTimeout, docconv.DefaultPDFOptions()),
	)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.ErrorHandler
	ipExtractor, err := middleware.IPExtractor(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
	}
	e.IPExtractor = ipExtractor

	// Middleware
	if telemetry.Enabled(cfg.OTLPEndpoint) {
		e.Use(otelecho.Middleware(telemetry.ServiceName))
	}
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Warnf("[HTTP] %s %s %d %s id=%s err=%v", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error)
				return nil
			}
			log.Infof("[HTTP] %s %s %d %s id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.BodyLimit("12M"))

	h.Register(e, auth)

	// Background cleanup of converter leftovers
	scheduler := jobs.StartScratchSweeper(cfg)

	// Start server
	go func() {
		log.Infof("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	<-scheduler.Stop().Done()
	middleware.StopLoginRateLimiters()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Errorf("Tracing shutdown failed: %v", err)
	}
}

func logLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
