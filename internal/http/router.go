// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, identity propagation, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
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

	"github.com/thetangstr/meridian-replit-sub001/internal/config"
	"github.com/thetangstr/meridian-replit-sub001/internal/http/handlers"
	"github.com/thetangstr/meridian-replit-sub001/internal/http/middleware"
	"github.com/thetangstr/meridian-replit-sub001/internal/repo"
	"github.com/thetangstr/meridian-replit-sub001/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), identity headers,
// idempotency and rate limiting, CORS and security headers, health and
// metrics endpoints, and then mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured logs with sensitive-header masking
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics, gzip
//  7. Identity headers (replay lookup and rate limiting key off the user)
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//
// 10. CORS, security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with header masking
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics, /metrics endpoint, response compression
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 7) Identity headers (X-User-ID / X-User-Role from the upstream proxy)
	r.Use(middleware.Identity())

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, reviewID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, reviewID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	corsHeaders := []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		middleware.HeaderUserID, middleware.HeaderUserRole, middleware.HeaderIdempotencyKey,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "X-Total-Count", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
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
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "X-Total-Count", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← db
	taxSvc := &services.TaxonomyService{DB: db}
	carSvc := &services.CarService{DB: db}
	assignSvc := &services.AssignmentService{DB: db}
	reviewSvc := &services.ReviewService{DB: db}
	evalSvc := &services.EvaluationService{DB: db}
	cfgSvc := &services.ScoringConfigService{DB: db}
	reportSvc := &services.ReportService{DB: db, LowScoreThreshold: cfg.LowScoreThreshold}

	h := handlers.New(taxSvc, carSvc, assignSvc, reviewSvc, evalSvc, cfgSvc, reportSvc, cfg.IdempotencyTTL)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Taxonomy
		api.POST("/categories", h.CreateCategory)
		api.GET("/categories", h.ListCategories)
		api.GET("/categories/:id", h.GetCategory)
		api.POST("/categories/:id/cujs", h.CreateCuj)
		api.GET("/categories/:id/cujs", h.ListCujs)
		api.POST("/cujs/:id/tasks", h.CreateTask)
		api.GET("/cujs/:id/tasks", h.ListTasks)
		api.POST("/versions", h.CreateVersion)
		api.GET("/versions", h.ListVersions)
		api.GET("/versions/active", h.GetActiveVersion)
		api.PUT("/versions/:id/activate", h.ActivateVersion)

		// Cars
		api.POST("/cars", h.CreateCar)
		api.GET("/cars", h.ListCars)
		api.GET("/cars/:id", h.GetCar)
		api.PATCH("/cars/:id", h.UpdateCar)
		api.DELETE("/cars/:id", h.DeleteCar)

		// Assignments
		api.POST("/assignments", h.CreateAssignment)
		api.GET("/assignments", h.ListAssignments)
		api.DELETE("/assignments/:id", h.DeleteAssignment)

		// Scoring configuration
		api.GET("/scoring-config", h.GetScoringConfig)
		api.PATCH("/scoring-config/task-weights", h.UpdateTaskWeights)
		api.PATCH("/scoring-config/category-weights", h.UpdateCategoryWeights)

		// Reviews
		api.POST("/reviews", h.CreateReview)
		api.GET("/reviews", h.ListReviews)
		api.GET("/reviews/:id", h.GetReview)
		api.PUT("/reviews/:id/status", h.UpdateReviewStatus)
		api.PUT("/reviews/:id/publish", h.PublishReview)

		// Evaluations
		api.PUT("/reviews/:id/task-evaluations/:taskId", h.UpsertTaskEvaluation)
		api.GET("/reviews/:id/task-evaluations/:taskId", h.GetTaskEvaluation)
		api.GET("/reviews/:id/task-evaluations", h.ListTaskEvaluations)
		api.PUT("/reviews/:id/category-evaluations/:categoryId", h.UpsertCategoryEvaluation)
		api.GET("/reviews/:id/category-evaluations/:categoryId", h.GetCategoryEvaluation)
		api.GET("/reviews/:id/category-evaluations", h.ListCategoryEvaluations)
		api.POST("/reviews/:id/task-evaluations/:taskId/media", h.AttachTaskMedia)
		api.POST("/reviews/:id/category-evaluations/:categoryId/media", h.AttachCategoryMedia)
		api.GET("/reviews/:id/progress", h.GetReviewProgress)

		// Reports
		api.POST("/reviews/:id/report", h.GenerateReport)
		api.GET("/reviews/:id/report", h.GetReport)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
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
