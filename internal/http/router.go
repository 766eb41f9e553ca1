// Package httpapi wires the HTTP transport (Gin) to the gateway service,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, body limits,
// metrics, compression, CORS, security headers and chat sessions.
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

	"github.com/tbourn/claim-gateway/docs"
	"github.com/tbourn/claim-gateway/internal/config"
	"github.com/tbourn/claim-gateway/internal/http/handlers"
	"github.com/tbourn/claim-gateway/internal/http/middleware"
)

// uploadOverhead is the multipart framing allowed on top of the file limit.
const uploadOverhead = 64 << 10

var (
	corsMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", handlers.HeaderAPIKey, middleware.SessionHeader}
	corsExpose  = []string{"X-Request-ID", "Content-Length"}
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the channel adapters under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with credential and PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter (uploads get MaxUploadBytes)
//  6. Metrics
//  7. gzip (responses only; /metrics excluded)
//  8. CORS and Security headers
//
// The chat routes additionally run middleware.Session.
func RegisterRoutes(r *gin.Engine, gw handlers.Gateway, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	base := cfg.APIBasePath
	uploadPath := joinPath(base, "/chat/upload")

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-Telegram-Bot-Api-Secret-Token"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(cfg.MaxBodyBytes, map[string]int64{
		uploadPath: cfg.MaxUploadBytes + uploadOverhead,
	}))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// CORS posture (allow all without credentials when no origins configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
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
		// Echo ACAO for allowlisted origins; credentials let the browser keep
		// the chat session cookie.
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
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStorePaths: []string{joinPath(base, "/admin"), joinPath(base, "/keys")},
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

	// Groups copy the engine chain when created, so this follows every r.Use.
	api := groupWithPrefix(r, base)

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = api.BasePath()
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(gw, cfg.MaxUploadBytes)
	session := middleware.Session(middleware.SessionOptions{Secure: cfg.Security.SessionCookieSecure})

	// Web chat
	chat := api.Group("/chat", session)
	{
		chat.POST("", h.Chat)
		chat.POST("/upload", h.ChatUpload)
	}

	// Telegram
	api.POST("/telegram/webhook", h.TelegramWebhook)

	// API-key clients
	api.POST("/keys", h.IssueKey)
	api.POST("/messages", h.APIMessage)
	api.POST("/verify", h.APIVerify)

	// Admin
	admin := api.Group("/admin")
	{
		admin.GET("/data", h.AdminData)
		admin.DELETE("/logs/:id", h.DeleteLog)
	}
}

// limitBody returns a Gin middleware that caps the request body size to
// maxBytes using http.MaxBytesReader; routes listed in perRoute (by full
// route path) get their own cap. Requests exceeding the cap cause
// downstream body reads to error.
func limitBody(maxBytes int64, perRoute map[string]int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := maxBytes
		if n, ok := perRoute[c.FullPath()]; ok {
			limit = n
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
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

// joinPath joins a group base path and a route suffix without doubling '/'.
func joinPath(base, suffix string) string {
	if base == "" || base == "/" {
		return suffix
	}
	return base + suffix
}
