package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adventure-server/internal/ai"
	"adventure-server/internal/config"
	"adventure-server/internal/database"
	"adventure-server/internal/database/migrations"
	"adventure-server/internal/handler"
	"adventure-server/internal/interfaces"
	"adventure-server/internal/prompt"
	"adventure-server/internal/service"
	appLogger "adventure-server/pkg/logger"
	"adventure-server/pkg/mailer"
	appMiddleware "adventure-server/pkg/middleware"
	"adventure-server/pkg/migration"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger, err := appLogger.New(appLogger.Config{
		Level:    cfg.LogLevel,
		Encoding: "json",
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	zap.L().Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	// --- External Connections ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pgPool, err := setupPostgres(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()
	zap.L().Info("Connected to PostgreSQL")

	redisClient, err := setupRedis(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	zap.L().Info("Connected to Redis")

	// --- Schema Migrations ---
	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: ".",
		MigrationsFS:   migrations.FS,
	}, pgPool)
	if err := migrator.Up(ctx); err != nil {
		zap.L().Fatal("Failed to apply database migrations", zap.Error(err))
	}

	// --- Dependency Injection ---
	userRepo := database.NewPgUserRepository(pgPool, logger)
	characterRepo := database.NewPgCharacterRepository(logger)
	adventureRepo := database.NewPgAdventureRepository(logger)
	participationRepo := database.NewPgParticipationRepository(logger)
	sessionRepo := database.NewPgTurnSessionRepository(logger)
	messageRepo := database.NewPgMessageRepository(logger)
	tokenRepo := database.NewRedisTokenRepository(redisClient, logger)
	stateRepo := database.NewRedisStateRepository(redisClient, logger)
	txManager := database.NewPgTxManager(pgPool)

	narrator, err := ai.New(ai.Config{
		APIKey:      cfg.AIAPIKey,
		BaseURL:     cfg.AIBaseURL,
		ModelName:   cfg.AIModel,
		MaxTokens:   cfg.AIMaxTokens,
		Temperature: cfg.AITemperature,
		Timeout:     cfg.AITimeout,
	}, logger)
	if err != nil {
		zap.L().Fatal("Failed to create narration client", zap.Error(err))
	}

	var tokenCounter interfaces.TokenCounter
	if counter, err := prompt.NewCounter(); err != nil {
		zap.L().Warn("Token counter unavailable, prompt size cap disabled", zap.Error(err))
	} else {
		tokenCounter = counter
	}

	smtpMailer := mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, logger)

	authSvc := service.NewAuthService(userRepo, tokenRepo, stateRepo, stateRepo, smtpMailer, cfg, logger)
	characterSvc := service.NewCharacterService(pgPool, txManager, characterRepo, adventureRepo, participationRepo, sessionRepo, messageRepo, stateRepo, narrator, logger)
	adventureSvc := service.NewAdventureService(pgPool, adventureRepo, participationRepo, characterRepo, messageRepo, sessionRepo, stateRepo, logger)
	turnSvc := service.NewTurnService(pgPool, txManager, adventureRepo, participationRepo, characterRepo, sessionRepo, messageRepo, stateRepo, narrator, tokenCounter, cfg.PromptTokenLimit, logger)

	authHandler := handler.NewAuthHandler(authSvc, logger)
	adventureHandler := handler.NewAdventureHandler(adventureSvc, logger)
	characterHandler := handler.NewCharacterHandler(characterSvc, logger)
	turnHandler := handler.NewTurnHandler(turnSvc, authSvc, logger)

	// --- Rate Limiter (auth endpoints) ---
	rateLimitStore := rateli.RedisStore(&rateli.RedisOptions{
		RedisClient: redisClient,
		Rate:        cfg.AuthRateWindow,
		Limit:       uint(cfg.AuthRateLimit),
	})
	rateLimitMiddleware := rateli.RateLimiter(rateLimitStore, &rateli.Options{
		ErrorHandler: func(c *gin.Context, info rateli.Info) {
			zap.L().Warn("Rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.Time("resetTime", info.ResetTime),
				zap.String("path", c.Request.URL.Path),
			)
			c.String(http.StatusTooManyRequests, "Too many requests. Try again in "+time.Until(info.ResetTime).String())
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(appMiddleware.GinZapLogger(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	allowedOrigins := cfg.GetAllowedOrigins()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
		zap.L().Info("CORSAllowedOrigins not set, allowing default", zap.String("origin", "http://localhost:3000"))
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)
	router.GET("/dashboard", handler.Dashboard)

	// Route registration. Auth endpoints sit behind the rate limiter;
	// everything else requires a bearer token.
	public := router.Group("/api/auth")
	public.Use(rateLimitMiddleware)
	protectedAuth := router.Group("/api/auth")
	protectedAuth.Use(authHandler.AuthMiddleware())
	authHandler.RegisterRoutes(public, protectedAuth)

	protected := router.Group("/api")
	protected.Use(authHandler.AuthMiddleware())
	adventureHandler.RegisterRoutes(protected)
	characterHandler.RegisterRoutes(protected)
	turnHandler.RegisterRoutes(protected)

	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // narration calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.ServerPort))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}

// setupPostgres initializes the PostgreSQL connection pool with retry logic.
func setupPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	zap.L().Debug("Setting up PostgreSQL connection...")

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("unable to parse postgres config: %w", err)
	}

	var pool *pgxpool.Pool
	var lastErr error
	maxRetries := 10
	retryDelay := 3 * time.Second

	for i := 0; i < maxRetries; i++ {
		attempt := i + 1
		connectCtx, connectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		pool, err = pgxpool.NewWithConfig(connectCtx, poolConfig)
		connectCancel()

		if err != nil {
			lastErr = fmt.Errorf("unable to create postgres connection pool (attempt %d/%d): %w", attempt, maxRetries, err)
			zap.L().Warn("Postgres connection pool creation failed, retrying...",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			if i < maxRetries-1 {
				time.Sleep(retryDelay)
			}
			continue
		}

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = pool.Ping(pingCtx)
		pingCancel()

		if err == nil {
			zap.L().Info("Successfully connected and pinged PostgreSQL", zap.Int("attempt", attempt))
			return pool, nil
		}

		pool.Close()
		lastErr = fmt.Errorf("unable to ping postgres database (attempt %d/%d): %w", attempt, maxRetries, err)
		zap.L().Warn("Postgres ping failed, retrying...",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to postgres after %d attempts: %w", maxRetries, lastErr)
}

// setupRedis initializes the Redis client.
func setupRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	zap.L().Debug("Setting up Redis connection...")
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to ping redis: %w", err)
	}
	return client, nil
}
