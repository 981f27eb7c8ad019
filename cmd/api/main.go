package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"smart-bookmarks/internal/auth"
	"smart-bookmarks/internal/config"
	"smart-bookmarks/internal/db"
	apihttp "smart-bookmarks/internal/http"
	"smart-bookmarks/internal/repository"
	"smart-bookmarks/internal/service"
	"smart-bookmarks/internal/session"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	// Store de sesiones: Redis si esta configurado, memoria si no.
	store := session.NewMemoryStore()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using memory store", zap.Error(err))
		} else {
			store = session.NewRedisStore(redisClient, "bookmarks:")
		}
		cancel()
	}

	userRepo := repository.NewPgUserRepository(pool)
	bookmarkRepo := repository.NewPgBookmarkRepository(pool)

	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	sessions := session.NewManager(cfg.SessionSecret, sessionTTL, store)
	events := session.NewBroadcaster()

	provider := auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.AppBaseURL)
	authSvc := service.NewAuthService(
		logger,
		provider,
		userRepo,
		sessions,
		store,
		events,
		time.Duration(cfg.OAuthStateTTLMin)*time.Minute,
	)

	registry := service.NewListRegistry(logger, bookmarkRepo, events)
	defer registry.Close()

	secureCookie := strings.HasPrefix(cfg.AppBaseURL, "https://")
	authHandler := apihttp.NewAuthHandler(logger, authSvc, secureCookie, int(sessionTTL.Seconds()))
	pageHandler := apihttp.NewPageHandler(logger, registry)
	bookmarkHandler := apihttp.NewBookmarkHandler(logger, registry)

	router := apihttp.NewRouter(logger, sessions, authHandler, pageHandler, bookmarkHandler, "web/templates/*.html")

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
