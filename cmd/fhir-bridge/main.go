package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tfsalud/fhir-bridge/internal/backend"
	"github.com/tfsalud/fhir-bridge/internal/config"
	"github.com/tfsalud/fhir-bridge/internal/domain/catalog"
	"github.com/tfsalud/fhir-bridge/internal/domain/documentref"
	"github.com/tfsalud/fhir-bridge/internal/domain/history"
	"github.com/tfsalud/fhir-bridge/internal/domain/patient"
	"github.com/tfsalud/fhir-bridge/internal/domain/practitioner"
	"github.com/tfsalud/fhir-bridge/internal/domain/report"
	"github.com/tfsalud/fhir-bridge/internal/platform/auth"
	"github.com/tfsalud/fhir-bridge/internal/platform/fhir"
	"github.com/tfsalud/fhir-bridge/internal/platform/middleware"
)

func main() {
	root := &cobra.Command{
		Use:   "fhir-bridge",
		Short: "FHIR R5 facade over the legacy tfsalud record backend",
	}
	root.AddCommand(serveCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	client, err := backend.NewClient(cfg.BackendURL, cfg.BackendAPIPath, cfg.BackendTimeout, log)
	if err != nil {
		return err
	}
	verifier := auth.NewVerifier(cfg.JWTSecret)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(log))
	e.Use(middleware.Recovery(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept},
	}))

	registry := fhir.NewRegistry()
	patient.NewHandler(client, log).Register(registry)
	report.NewHandler(client, log).Register(registry)
	history.NewHandler(client, log).Register(registry)
	files := documentref.NewHandler(client, verifier, log)
	files.Register(registry)
	practitioner.NewHandler(client, log).Register(registry)
	catalog.NewHandler(client, log).Register(registry)

	group := e.Group("/fhir")
	group.GET("/metadata", capabilityStatement(registry))
	registry.Mount(group)

	// The web client uploads outside the FHIR surface.
	e.POST("/api/file/upload", files.Upload)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go client.WarmUp(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
		return zerolog.New(out).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func capabilityStatement(r *fhir.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		resources := make([]map[string]interface{}, 0)
		for _, rt := range r.Resources() {
			resources = append(resources, map[string]interface{}{"type": rt})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"resourceType": "CapabilityStatement",
			"status":       "active",
			"date":         time.Now().UTC().Format(time.RFC3339),
			"kind":         "instance",
			"fhirVersion":  "5.0.0",
			"format":       []string{"application/fhir+json"},
			"rest": []map[string]interface{}{{
				"mode":     "server",
				"resource": resources,
			}},
		})
	}
}
