package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Team-Name-exists/Heritiq/ai"
	"github.com/Team-Name-exists/Heritiq/config"
	"github.com/Team-Name-exists/Heritiq/controllers"
	"github.com/Team-Name-exists/Heritiq/database"
	"github.com/Team-Name-exists/Heritiq/gateway"
	"github.com/Team-Name-exists/Heritiq/middleware"
	"github.com/Team-Name-exists/Heritiq/realtime"
	"github.com/Team-Name-exists/Heritiq/routes"
	"github.com/Team-Name-exists/Heritiq/services"
	"github.com/Team-Name-exists/Heritiq/storage"
)

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-API-KEY", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}

func main() {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("load config")
	}
	logger := newLogger(cfg)

	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET must be set")
	}

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("migrate database")
	}

	var revocations services.RevocationStore = services.NewGormRevocationStore(db)
	if cfg.MongoURI != "" {
		client, mdb, err := database.ConnectMongo(context.Background(), cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect mongo")
		}
		defer client.Disconnect(context.Background())

		store := services.NewMongoRevocationStore(mdb)
		if err := store.EnsureIndexes(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("create token indexes")
		}
		revocations = store
		logger.Info().Msg("token revocation backed by mongo")
	}

	hub := realtime.NewHub(logger)
	h := &controllers.Handler{
		DB:          db,
		Users:       services.NewUserService(db),
		Tokens:      services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Revocations: revocations,
		Catalog:     services.NewCatalogService(db),
		Carts:       services.NewCartService(db),
		Orders:      services.NewOrderService(db),
		Payments:    services.NewPaymentService(db, gateway.Demo{}),
		Messages:    services.NewMessageService(db, hub),
		Tutorials:   services.NewTutorialService(db, ai.DemoWriter{}),
		Advisor:     ai.DemoAdvisor{},
		Uploads:     storage.NewDisk(cfg.UploadDir, cfg.MaxUploadBytes),
		Hub:         hub,
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	_ = r.SetTrustedProxies(nil)
	r.Use(
		middleware.RequestID(logger),
		middleware.Logger(),
		middleware.Recovery(),
		cors.New(corsConfig(cfg.CORSOrigins)),
	)
	r.Static("/static/uploads", cfg.UploadDir)
	routes.RegisterRoutes(r, h, routes.Options{GatewayAPIKey: cfg.GatewayAPIKey})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
}
