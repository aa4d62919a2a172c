package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intconfig "safareasy/internal/config"
	h "safareasy/internal/http/handlers"
	"safareasy/internal/http/middleware"
	"safareasy/internal/notify"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, notifier notify.Notifier) *gin.Engine {
	h.Configure(env, notifier)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), corsMiddleware(env))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	requireAuth := middleware.RequireAuth([]byte(env.JWTSecret))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		trips := api.Group("/trips")
		trips.POST("", h.CreateTrip)
		trips.GET("/:id", h.GetTrip)
		trips.PUT("/:id/depart", h.DepartTrip)
		trips.PUT("/:id/cancel", h.CancelTrip)
		trips.PUT("/:id/complete", h.CompleteTrip)

		queues := api.Group("/queues")
		queues.POST("", h.EnqueueTrip)
		queues.DELETE("/:id", h.DequeueEntry)
		queues.GET("/route/:routeId", h.ListQueueByRoute)

		tickets := api.Group("/tickets")
		tickets.POST("", h.CreateTicket)
		tickets.GET("/:id", h.GetTicket)
		tickets.PUT("/:id/status", h.UpdateTicketStatus)
		tickets.GET("/scan/:qrCode", h.ScanTicket)
		tickets.GET("/:id/eticket", h.GetTicketETicketPDF)
		tickets.GET("/:id/reallocations", h.ListTicketReallocations)

		reallocations := api.Group("/reallocations")
		reallocations.POST("/auto/:tripId", h.AutoReallocate)
		reallocations.POST("/manual", requireAuth, h.ManualReallocate)

		payrolls := api.Group("/payrolls")
		payrolls.POST("", h.ProcessPayroll)
		payrolls.GET("/:id", h.GetPayroll)
		payrolls.PUT("/:id/dispute", requireAuth, h.DisputePayroll)
		payrolls.PUT("/:id/resolve", requireAuth, h.ResolvePayroll)
		payrolls.GET("/trip/:tripId", h.GetPayrollByTrip)
		payrolls.GET("/owner/:ownerId", h.ListPayrollsByOwner)
		payrolls.GET("/driver/:driverId", h.ListPayrollsByDriver)
		payrolls.GET("/:id/statement", h.GetPayrollStatementPDF)

		api.POST("/payments", h.CreatePayment)
	}

	return r
}

func corsMiddleware(env intconfig.Env) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
	if len(env.CORSOrigins) > 0 {
		cfg.AllowOrigins = env.CORSOrigins
	} else {
		cfg.AllowOrigins = []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}
	}
	return cors.New(cfg)
}
