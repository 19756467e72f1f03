package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"rently/internal/infra/config"
	"rently/internal/infra/obs"
)

type ReservationHTTP interface {
	Create(c *gin.Context)
	CheckAvailability(c *gin.Context)
}

type PropertyHTTP interface {
	Status(c *gin.Context)
	Transition(c *gin.Context)
	CheckTransition(c *gin.Context)
}

type BlockHTTP interface {
	Add(c *gin.Context)
	List(c *gin.Context)
	Remove(c *gin.Context)
}

type Handlers struct {
	Reservation ReservationHTTP
	Property    PropertyHTTP
	Block       BlockHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Reservation != nil {
		api.POST("/properties/:id/reservations", h.Reservation.Create)
		api.GET("/properties/:id/availability", h.Reservation.CheckAvailability)
	}
	if h.Property != nil {
		api.GET("/properties/:id/status", h.Property.Status)
		api.POST("/properties/:id/status", h.Property.Transition)
		api.GET("/properties/:id/status/check", h.Property.CheckTransition)
	}
	if h.Block != nil {
		api.POST("/properties/:id/blocks", h.Block.Add)
		api.GET("/properties/:id/blocks", h.Block.List)
		api.DELETE("/blocks/:id", h.Block.Remove)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
