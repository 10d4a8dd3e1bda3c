package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"

	authhttp "github.com/capitalsapp/capitals/internal/auth/http"
	authservice "github.com/capitalsapp/capitals/internal/auth/service"
	"github.com/capitalsapp/capitals/internal/auth/token"
	capitalshttp "github.com/capitalsapp/capitals/internal/capitals/http"
	capitalsrepo "github.com/capitalsapp/capitals/internal/capitals/repository"
	capitalsservice "github.com/capitalsapp/capitals/internal/capitals/service"
	"github.com/capitalsapp/capitals/internal/common/clock"
	"github.com/capitalsapp/capitals/internal/common/config"
	"github.com/capitalsapp/capitals/internal/common/constants"
	commoncrypto "github.com/capitalsapp/capitals/internal/common/crypto"
	"github.com/capitalsapp/capitals/internal/common/db"
	commonhttp "github.com/capitalsapp/capitals/internal/common/http"
	"github.com/capitalsapp/capitals/internal/common/httpmetrics"
	"github.com/capitalsapp/capitals/internal/common/logger"
	srv "github.com/capitalsapp/capitals/internal/common/server"
	userrepo "github.com/capitalsapp/capitals/internal/user/repository"
	"github.com/capitalsapp/capitals/internal/web"
)

func main() {
	app := &cli.App{
		Name:  "capitals",
		Usage: "country/capital CRUD service with cookie sessions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Usage:   "HTTP listen port",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:    "app-env",
				Usage:   "deployment environment (development or production)",
				EnvVars: []string{"APP_ENV"},
			},
			&cli.StringFlag{
				Name:    "log-dir",
				Usage:   "directory for rotated log files (stdout only when empty)",
				EnvVars: []string{"LOG_DIR"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "minimum log level",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	log, err := logger.New(c.String("log-dir"), "capitals", c.String("log-level"))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if port := c.String("port"); port != "" {
		cfg.HTTPPort = port
	}
	if env := c.String("app-env"); env != "" {
		cfg.Env = env
	}

	pool, err := db.NewPool(log, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	clk := clock.NewRealClock()
	codec := token.NewHS256Codec(cfg.TokenSecret, clk)
	hasher := &commoncrypto.BcryptHasher{}

	authService := authservice.NewAuthService(
		userrepo.NewPgRepository(pool),
		hasher,
		codec,
		cfg.SessionTTL,
		log,
	)
	capitalsService := capitalsservice.NewService(capitalsrepo.NewPgRepository(pool), log)

	authHandler := authhttp.NewHandler(authService, cfg.IsProduction(), log)
	capitalsHandler := capitalshttp.NewHandler(capitalsService, log)
	webHandler, err := web.NewHandler(capitalsService, log)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	router := httprouter.New()
	authHandler.Mount(router)
	capitalsHandler.Mount(router)
	webHandler.Mount(router, authhttp.RequireSession(codec, log))
	router.HandlerFunc(http.MethodGet, "/health", commonhttp.HealthHandler())
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
	})

	handler := corsHandler.Handler(router)
	handler = httpmetrics.Wrap(handler)
	handler = commonhttp.TimeoutMiddleware(cfg.RequestTimeout)(handler)
	handler = commonhttp.MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)(handler)
	handler = commonhttp.TraceIDMiddleware(handler)
	handler = commonhttp.RecoveryMiddleware(log)(handler)
	handler = commonhttp.SecurityHeadersMiddleware(handler)

	server := srv.New(srv.DefaultConfig(cfg.HTTPPort), handler)
	srv.StartWithGracefulShutdown(server, log)
	return nil
}
