package server

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func newRouter(opts Options, h *handlers) *gin.Engine {
	r := gin.New()
	r.UseRawPath = true // concept names may contain an escaped "/"
	r.Use(gin.Recovery())
	r.Use(RequestLogger(opts.Log))
	r.Use(CORS(opts.AllowOrigins))
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		r.Use(RateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), burst)))
	}

	r.GET("/healthcheck", h.HealthCheck)
	r.GET("/", h.Page)

	api := r.Group("/api")
	{
		api.GET("/graph", h.Graph)
		api.GET("/diagnostics", h.Diagnostics)
		api.GET("/concepts/:name", h.GetConcept)
		api.GET("/search", h.Search)

		api.POST("/sessions", h.CreateSession)
		api.GET("/sessions/:id", h.GetSession)
		api.POST("/sessions/:id/select", h.SelectNode)
		api.DELETE("/sessions/:id/select", h.ClearSelection)
		api.PUT("/sessions/:id/learned/:name", h.MarkLearned)
		api.DELETE("/sessions/:id/learned/:name", h.UnmarkLearned)
	}

	return r
}
