// Package router provides HTTP routing, middleware configuration, and server setup for the studio API
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tatame-app/tatame/app/dto"
	"github.com/tatame-app/tatame/app/handlers"
	"github.com/tatame-app/tatame/app/middleware"
	"github.com/tatame-app/tatame/config"
	"github.com/tatame-app/tatame/utils"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	Shutdown() error
	GetApp() *fiber.App
}

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	StaffAuth   handlers.StaffAuthHandlerInterface
	Member      handlers.MemberHandlerInterface
	Enrollment  handlers.EnrollmentHandlerInterface
	Checkin     handlers.CheckinHandlerInterface
	Freeze      handlers.FreezeHandlerInterface
	CashSession handlers.CashSessionHandlerInterface
	Discount    handlers.DiscountHandlerInterface
	Pricing     handlers.PricingHandlerInterface
	Report      handlers.ReportHandlerInterface
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	cfg      *config.ProductionConfig
	handlers Handlers
	auth     *middleware.AuthMiddleware
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(cfg *config.ProductionConfig, h Handlers, auth *middleware.AuthMiddleware) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Tatame API",
		ServerHeader: "Tatame",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:      app,
		cfg:      cfg,
		handlers: h,
		auth:     auth,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	if r.cfg.Metrics.EnablePrometheus {
		r.app.Get(r.cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.GlobalRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Staff auth with stricter rate limiting
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.AuthRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))
	auth.Get("/captcha", r.handlers.StaffAuth.Captcha)
	auth.Post("/login", r.handlers.StaffAuth.Login)

	// Everything below requires a staff token
	protected := api.Group("", r.auth.Authenticate())

	members := protected.Group("/members")
	members.Post("", r.handlers.Member.RegisterLead)
	members.Get("", r.handlers.Member.List)
	members.Get("/:uuid", r.handlers.Member.Get)
	members.Patch("/:uuid/status", r.handlers.Member.UpdateStatus)
	members.Post("/:uuid/photo", r.handlers.Member.UploadPhoto)
	members.Get("/:uuid/freeze", r.handlers.Freeze.Status)
	members.Post("/:uuid/freeze", r.handlers.Freeze.Freeze)
	members.Post("/:uuid/unfreeze", r.handlers.Freeze.Unfreeze)

	enrollments := protected.Group("/enrollments")
	enrollments.Post("/quote", r.handlers.Enrollment.Quote)
	enrollments.Post("", r.handlers.Enrollment.Enroll)

	checkins := protected.Group("/checkins")
	checkins.Post("", r.handlers.Checkin.Checkin)
	checkins.Get("", r.handlers.Checkin.List)

	cashSessions := protected.Group("/cash-sessions")
	cashSessions.Post("", r.handlers.CashSession.Open)
	cashSessions.Post("/:uuid/close", r.handlers.CashSession.Close)
	cashSessions.Get("/:uuid", r.handlers.CashSession.Get)

	reports := protected.Group("/reports")
	reports.Get("/export", r.handlers.Report.Export)

	// Promo validation is a front-desk operation, the rest of the
	// discount surface is admin-only
	protected.Post("/discounts/validate", r.handlers.Discount.ValidatePromo)

	admin := protected.Group("", r.auth.AdminOnly())

	discounts := admin.Group("/discounts")
	discounts.Post("", r.handlers.Discount.Create)
	discounts.Get("", r.handlers.Discount.List)
	discounts.Delete("/:uuid", r.handlers.Discount.Deactivate)

	pricing := admin.Group("/pricing")
	pricing.Get("/config", r.handlers.Pricing.GetConfig)
	pricing.Put("/config", r.handlers.Pricing.UpdateConfig)
	pricing.Put("/plans/:uuid/override", r.handlers.Pricing.UpsertPlanOverride)

	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            r.cfg.Security.HSTSMaxAge,
		HSTSExcludeSubdomains: !r.cfg.Security.HSTSIncludeSubDoms,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		XDNSPrefetchControl:   "off",
		XDownloadOptions:      "noopen",
		XPermittedCrossDomain: "none",
	}))

	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.cfg.Security.AllowedOrigins,
		AllowMethods: r.cfg.Security.AllowedMethods,
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		AllowCredentials: r.cfg.Security.AllowCredentials,
		MaxAge:           utils.CORSMaxAge,
	}))

	if r.cfg.Server.EnableCompression {
		r.app.Use(compress.New(compress.Config{
			Level: compress.Level(r.cfg.Server.CompressionLevel),
			Next: func(c fiber.Ctx) bool {
				// Member photos and report downloads are already compressed
				contentType := c.Get("Content-Type")
				return contains(contentType, "image/") ||
					contains(contentType, "application/vnd.openxmlformats")
			},
		}))
	}

	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent}}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	if r.cfg.Server.EnableMetrics {
		r.app.Use(middleware.Metrics())
	}

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// Shutdown gracefully stops the HTTP server
func (r *FiberRouter) Shutdown() error {
	return r.app.Shutdown()
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "tatame-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func contains(str, substr string) bool {
	return strings.Contains(str, substr)
}
