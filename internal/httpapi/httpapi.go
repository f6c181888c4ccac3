// Package httpapi serves the diagnostic engine over REST: analysis,
// stored assessment history, keyword lookup and history statistics.
// Persistence is optional; without a store the history endpoints
// report themselves disabled and analysis still works.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cognicore/dxcore/pkg/dxcore"
	"github.com/cognicore/dxcore/pkg/dxcore/store"
)

// maxBodyBytes caps request bodies well above the sanitizer's text cap
// so oversized submissions fail fast at the transport.
const maxBodyBytes = 1 << 20

// Server owns the HTTP surface around one engine and an optional
// assessment store.
type Server struct {
	engine *dxcore.Engine
	store  store.Store
}

// New creates a server. The engine is required; st may be nil to run
// without history.
func New(engine *dxcore.Engine, st store.Store) *Server {
	return &Server{engine: engine, store: st}
}

// Router builds the gin handler with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		requestID(),
		limitBodySize(maxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if s.store == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"store":  fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "ok"})
	})

	v1 := router.Group("/v1")
	{
		v1.POST("/analyze", s.handleAnalyze)
		v1.GET("/assessments", s.handleListAssessments)
		v1.GET("/assessments/:id", s.handleGetAssessment)
		v1.GET("/diseases", s.handleDiseaseLookup)
		v1.GET("/stats", s.handleStats)
	}

	return router
}

// requestID tags every request with a correlation ID, honoring one the
// caller already set.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
