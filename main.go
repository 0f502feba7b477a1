// Package main provides the main entry point for the Tatame studio management system
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tatame-app/tatame/app/handlers"
	"github.com/tatame-app/tatame/app/middleware"
	"github.com/tatame-app/tatame/app/router"
	"github.com/tatame-app/tatame/app/scheduler"
	"github.com/tatame-app/tatame/app/services"
	businessflow "github.com/tatame-app/tatame/business_flow"
	"github.com/tatame-app/tatame/config"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/repository"
	"github.com/tatame-app/tatame/utils"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Tatame application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the default logger to a rotating file when configured
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output != "file" && cfg.Output != "both" {
		return
	}
	if cfg.FilePath == "" {
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	if cfg.Output == "both" {
		log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	} else {
		log.SetOutput(rotator)
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, cfg.Cache.CleanupInterval)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Initialize repositories
	memberRepo := repository.NewMemberRepository(db)
	planRepo := repository.NewPlanRepository(db)
	pricingConfigRepo := repository.NewPricingConfigRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	checkinRepo := repository.NewCheckInRepository(db)
	freezeHistoryRepo := repository.NewFreezeHistoryRepository(db)
	cashSessionRepo := repository.NewCashSessionRepository(db)
	staffRepo := repository.NewStaffRepository(db)

	// Seed the bootstrap admin account before anyone can log in
	if err := ensureBootstrapAdmin(db, staffRepo, cfg.Admin); err != nil {
		return nil, err
	}

	// Captcha service for the staff login page
	captchaSvc, err := services.NewCaptchaServiceRotate(2*time.Minute, 15, 300)
	if err != nil {
		return nil, err
	}

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Initialize flows
	staffAuthFlow := businessflow.NewStaffAuthFlow(staffRepo, tokenService, captchaSvc)

	memberFlow := businessflow.NewMemberFlow(memberRepo, cfg.Uploads)

	enrollmentFlow := businessflow.NewEnrollmentFlow(
		memberRepo,
		planRepo,
		pricingConfigRepo,
		discountRepo,
		paymentRepo,
		cashSessionRepo,
		db,
	)

	checkinFlow := businessflow.NewCheckinFlow(memberRepo, checkinRepo, rc, &cfg.Cache)

	freezeFlow := businessflow.NewFreezeFlow(memberRepo, freezeHistoryRepo, db)

	discountAdminFlow := businessflow.NewDiscountAdminFlow(discountRepo, memberRepo, rc, &cfg.Cache)

	pricingAdminFlow := businessflow.NewPricingAdminFlow(pricingConfigRepo, planRepo)

	cashSessionFlow := businessflow.NewCashSessionFlow(cashSessionRepo)

	reportFlow := businessflow.NewReportFlow(paymentRepo, checkinRepo)

	// Initialize handlers
	h := router.Handlers{
		StaffAuth:   handlers.NewStaffAuthHandler(staffAuthFlow),
		Member:      handlers.NewMemberHandler(memberFlow),
		Enrollment:  handlers.NewEnrollmentHandler(enrollmentFlow),
		Checkin:     handlers.NewCheckinHandler(checkinFlow),
		Freeze:      handlers.NewFreezeHandler(freezeFlow),
		CashSession: handlers.NewCashSessionHandler(cashSessionFlow),
		Discount:    handlers.NewDiscountHandler(discountAdminFlow),
		Pricing:     handlers.NewPricingHandler(pricingAdminFlow),
		Report:      handlers.NewReportHandler(reportFlow),
	}

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService, staffRepo)

	// Initialize router
	appRouter := router.NewFiberRouter(cfg, h, authMiddleware)

	// Start the freeze sweep
	sched := scheduler.NewMembershipScheduler(memberRepo, cfg.Scheduler)
	stopScheduler := sched.Start(context.Background())
	stopFuncs = append(stopFuncs, stopScheduler)

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// ensureBootstrapAdmin seeds the first admin account when none exists yet.
// The generated password is printed once; the operator is expected to change it.
func ensureBootstrapAdmin(db *gorm.DB, staffRepo repository.StaffRepository, cfg config.AdminConfig) error {
	if cfg.Email == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	existing, err := staffRepo.ByEmail(ctx, cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to check bootstrap admin: %w", err)
	}
	if existing != nil {
		return nil
	}

	raw := make([]byte, 12)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate admin password: %w", err)
	}
	password := hex.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.Staff{
		Name:         cfg.Name,
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Role:         models.StaffRoleAdmin,
		IsActive:     utils.ToPtr(true),
	}
	if err := staffRepo.Save(ctx, &admin); err != nil {
		return fmt.Errorf("failed to seed bootstrap admin: %w", err)
	}

	log.Printf("Bootstrap admin created for %s with password %s (change it after first login)", cfg.Email, password)
	return nil
}
