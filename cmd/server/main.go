package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/api"
	"reviewdesk-backend-go/internal/config"
	"reviewdesk-backend-go/internal/core"
	"reviewdesk-backend-go/internal/db"
	"reviewdesk-backend-go/internal/geo"
	"reviewdesk-backend-go/internal/identity"
	"reviewdesk-backend-go/internal/middleware"
	"reviewdesk-backend-go/internal/observability"
	"reviewdesk-backend-go/internal/places"
	"reviewdesk-backend-go/pkg/cache"
	"reviewdesk-backend-go/pkg/database"
	"reviewdesk-backend-go/pkg/mailer"
	"reviewdesk-backend-go/pkg/messagequeue"
)

func main() {
	// .env is a development convenience; release deployments set the environment directly.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: error loading .env file: %v", err)
		}
	}

	// --- 1. Configuration and logger ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	zapLogger, err := newLogger(appConfig)
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Application configuration loaded", zap.String("ginMode", appConfig.GinMode))

	// --- 2. Firebase (Firestore + Auth) ---
	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()
	clients, err := db.InitFirebase(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer clients.Close()

	// --- 3. Optional infrastructure ---
	metrics := observability.NewMetrics()

	var sharedCache cache.Cache
	if appConfig.RedisAddress != "" {
		redisCache, err := cache.NewRedisCache(initCtx, cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddress,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
			Prefix:   "reviewdesk:",
		}, zapLogger)
		if err != nil {
			zapLogger.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		} else {
			defer redisCache.Close()
			sharedCache = redisCache
		}
	}

	var publisher messagequeue.Publisher
	if appConfig.RabbitMQURL != "" {
		rabbit, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL}, zapLogger)
		if err != nil {
			zapLogger.Warn("RabbitMQ unavailable, login events will not be published", zap.Error(err))
		} else {
			defer rabbit.Close()
			publisher = rabbit
		}
	}

	var mail core.Mailer
	if appConfig.MailEnabled() {
		mail = mailer.New(mailer.Config{
			Host:     appConfig.SMTPHost,
			Port:     appConfig.SMTPPort,
			User:     appConfig.SMTPUser,
			Password: appConfig.SMTPPassword,
			From:     appConfig.MailFrom,
		})
	} else {
		zapLogger.Warn("SMTP is not configured; password reset and applicant replies will not be mailed")
	}

	// --- 4. Outbound clients ---
	httpClient := &http.Client{Timeout: 10 * time.Second}
	idp := identity.NewFirebaseProvider(clients.Auth)

	var passwords core.PasswordAuthenticator
	if appConfig.FirebaseWebAPIKey != "" {
		passwords = identity.NewPasswordClient(httpClient, "", appConfig.FirebaseWebAPIKey)
	} else {
		zapLogger.Warn("FIREBASE_WEB_API_KEY is not set; POST /auth/login is disabled")
	}

	geoOpts := []geo.Option{geo.WithTimeout(appConfig.GeoTimeout), geo.WithMetrics(metrics)}
	if sharedCache != nil {
		geoOpts = append(geoOpts, geo.WithCache(sharedCache, appConfig.GeoCacheTTL))
	}
	resolver := geo.NewResolver(zapLogger, geo.DefaultProviders(httpClient), geoOpts...)

	placesClient := places.NewClient(httpClient, appConfig.PlacesBaseURL, appConfig.PlacesAPIKey, zapLogger, metrics)

	// --- 5. Repositories and services ---
	userRepo := db.NewFirestoreUserRepository(clients.Firestore)
	linkRepo := db.NewFirestoreLinkRepository(clients.Firestore)
	reviewRepo := db.NewFirestoreReviewRepository(clients.Firestore)
	careerRepo := db.NewFirestoreCareerRepository(clients.Firestore)
	settingsStore := database.NewFirestoreService(clients.Firestore)

	services := api.Services{
		Sessions: core.NewSessionService(userRepo, idp, passwords, resolver, publisher, metrics, zapLogger, core.SessionServiceConfig{
			TrialLength:  appConfig.TrialPeriod(),
			HistoryLimit: appConfig.LoginHistoryLimit,
			EventsQueue:  appConfig.LoginEventsQueue,
		}),
		Accounts: core.NewAccountService(userRepo, idp, mail, zapLogger),
		Links:    core.NewLinkService(linkRepo, userRepo, appConfig.LinkTTL(), zapLogger),
		Reviews:  core.NewReviewService(userRepo, reviewRepo, placesClient, sharedCache, appConfig.ReviewsCacheTTL, zapLogger),
		Careers:  core.NewCareerService(careerRepo, mail, zapLogger),
		Settings: core.NewSettingsService(settingsStore, zapLogger),
		Admin:    core.NewAdminService(userRepo, idp, zapLogger),
	}

	// --- 6. HTTP engine ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(appConfig.TrustedProxyList()); err != nil {
		zapLogger.Fatal("Invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(middleware.RequestLogger(zapLogger, metrics))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig.ClientURL))

	api.SetupRoutes(router, services, middleware.NewAuthMiddleware(idp, userRepo, zapLogger), metrics, zapLogger)

	// --- 7. Serve with graceful shutdown ---
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", appConfig.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zapLogger.Info("Starting HTTP server", zap.String("address", httpServer.Addr), zap.String("ginMode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully.")
}

// newLogger builds a development logger in debug mode and a production logger in release.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsRelease() {
		zcfg = zap.NewProductionConfig()
	}
	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}
