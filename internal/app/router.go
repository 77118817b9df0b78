package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"triproute/internal/handler"
	"triproute/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler    *handler.TripHandler
	BookingHandler *handler.BookingHandler
	TrackHandler   *handler.TrackHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check and metrics.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Trip routes.
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.CreateTrip)
			trips.GET("", deps.TripHandler.GetAll)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.POST("/:id/start", deps.TripHandler.StartTrip)
			trips.POST("/:id/cancel", deps.TripHandler.CancelTrip)
			trips.POST("/:id/complete", deps.TripHandler.CompleteTrip)
			trips.POST("/:id/progress", deps.TripHandler.UpdateProgress)
			trips.GET("/:id/route", deps.TripHandler.GetRoute)
			trips.GET("/:id/eta", deps.TripHandler.GetETA)
			trips.POST("/:id/snap", deps.TripHandler.SnapPoint)
			trips.GET("/:id/bookings", deps.BookingHandler.GetTripBookings)
			trips.GET("/:id/track", deps.TrackHandler.Track)
		}

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", deps.BookingHandler.CreateBooking)
			bookings.GET("/:id", deps.BookingHandler.GetBooking)
			bookings.POST("/:id/accept", deps.BookingHandler.AcceptBooking)
			bookings.POST("/:id/reject", deps.BookingHandler.RejectBooking)
			bookings.POST("/:id/pickup", deps.BookingHandler.ConfirmPickup)
			bookings.POST("/:id/dropoff", deps.BookingHandler.ConfirmDropoff)
		}
	}

	return router
}
