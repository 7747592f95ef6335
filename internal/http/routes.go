package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options are the knobs of SetupRoutes that do not belong to Env.
type Options struct {
	CORSOrigin string
	// CreateLimiter throttles POST /ideas; nil disables it.
	CreateLimiter *IPRateLimiter
}

// SetupRoutes configures all application routes and middleware.
func SetupRoutes(router *gin.Engine, env *Env, opts Options) {
	useJSONFieldNames()

	// --- Middleware ---
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())
	router.Use(corsMiddleware(opts.CORSOrigin))
	router.Use(JSONContentTypeMiddleware())

	// --- Ambient routes ---
	if env.Pool != nil {
		router.GET("/health", env.Health)
	}
	if env.Hub != nil {
		router.GET("/ws", env.Events)
	}

	// --- API routes ---
	// Every API request holds one pooled connection until it completes.
	var pinned []gin.HandlerFunc
	if env.Pool != nil {
		pinned = append(pinned, ConnectionMiddleware(env.Pool, env.Logger))
	}
	withConn := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(pinned)+1)
		chain = append(chain, pinned...)
		return append(chain, handler)
	}

	create := withConn(env.CreateIdea)
	if opts.CreateLimiter != nil {
		create = append([]gin.HandlerFunc{RateLimitMiddleware(opts.CreateLimiter)}, create...)
	}

	router.GET("/ideas", withConn(env.ListIdeas)...)
	router.POST("/ideas", create...)
	router.GET("/ideas/:id", withConn(env.GetIdea)...)
	router.DELETE("/ideas/:id", withConn(env.DeleteIdea)...)
	router.GET("/ideas/:id/likes", withConn(env.ListLikes)...)
	router.POST("/ideas/:id/likes", withConn(env.CreateLike)...)
	router.DELETE("/ideas/:id/likes", withConn(env.DeleteLike)...)
}

func corsMiddleware(origin string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
	}
	if origin == "" || origin == "*" {
		// Credentials cannot be combined with a wildcard origin.
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{origin}
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
