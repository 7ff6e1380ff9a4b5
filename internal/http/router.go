// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, authentication and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Generated assets served next to the API they are produced by
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-imagegen-backend/docs"
	"github.com/tbourn/go-imagegen-backend/internal/auth"
	"github.com/tbourn/go-imagegen-backend/internal/config"
	"github.com/tbourn/go-imagegen-backend/internal/gateway"
	"github.com/tbourn/go-imagegen-backend/internal/http/handlers"
	"github.com/tbourn/go-imagegen-backend/internal/http/middleware"
	"github.com/tbourn/go-imagegen-backend/internal/prompt"
	"github.com/tbourn/go-imagegen-backend/internal/services"
	"github.com/tbourn/go-imagegen-backend/internal/storage"
)

var (
	corsMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsExpose  = []string{"X-Request-ID", "Content-Length", "ETag"}
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), CORS and security
// headers, static asset routes, health and metrics endpoints, and then mounts
// the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Gzip (JSON only, images are already compressed)
//  8. CORS and Security headers
//
// The rate limiter and authentication are scoped to the API group: static
// assets and health checks are never throttled.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, gen gateway.Generator, store *storage.Store, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (uploads included)
	r.Use(limitBody(cfg.MaxBodyBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Compression
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedExtensions([]string{".png", ".jpg", ".jpeg", ".webp"}),
	))

	// 8) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:    cfg.Security.EnableHSTS,
		HSTSMaxAge:    cfg.Security.HSTSMaxAge,
		NoStore:       false,
		EnablePolicy:  true,
		AssetPrefixes: []string{"/generated/", "/uploads/"},
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Server is running"})
	})
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Generated images and saved uploads
	r.Static("/generated", cfg.GeneratedDir)
	r.Static("/uploads", cfg.UploadDir)

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← db/store/generator
	genSvc := &services.GenerationService{
		DB:      db,
		Prompts: prompt.New(),
		Gen:     gen,
		Uploads: store,
	}
	histSvc := &services.HistoryService{DB: db, EnforceOwnership: cfg.Auth.Required}
	authSvc := &services.AuthService{DB: db, Tokens: auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)}
	h := handlers.New(genSvc, histSvc, authSvc)

	// Public API, throttled per user (after authentication) or IP.
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	// Tokens per request follow the most upstream calls a route can make.
	// The limiter runs before the body is read, so a story is always billed
	// at four scenes whatever "scenes" asks for.
	rl.Cost = middleware.CostByRoute(map[string]int{
		"/story-image":     4,
		"/social/generate": 2,
	})
	api := groupWithPrefix(r, cfg.APIBasePath)

	// Accounts
	accounts := api.Group("/auth")
	accounts.Use(rl.Handler())
	{
		accounts.POST("/register", h.Register)
		accounts.POST("/login", h.Login)
		accounts.GET("/me", middleware.Authenticate(authSvc, true), h.Me)
	}

	tools := api.Group("")
	tools.Use(middleware.Authenticate(authSvc, cfg.Auth.Required), rl.Handler())
	{
		// Generation
		tools.POST("/prompt-to-image", h.PromptToImage)
		tools.POST("/image-style", h.ImageStyle)
		tools.POST("/specs-tryon", h.SpecsTryOn)
		tools.POST("/haircut-preview", h.HaircutPreview)
		tools.POST("/insta-story", h.InstaStory)
		tools.POST("/social/generate", h.SocialPost)
		tools.POST("/story-image", h.StoryImage)
		tools.POST("/enhance-prompt", h.EnhancePrompt)

		// History
		tools.GET("/get-history", h.GetHistory)
		tools.GET("/prompt-enhancer/history", h.EnhancerHistory)
		tools.DELETE("/delete-history/:id", h.DeleteHistory)
	}
}

// limitBody returns a Gin middleware that caps the request body size to
// maxBytes. A declared Content-Length above the cap is rejected up front;
// otherwise http.MaxBytesReader makes oversized reads fail downstream.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			handlers.Fail(c, http.StatusRequestEntityTooLarge, handlers.ErrCodeTooLarge, handlers.MsgTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
