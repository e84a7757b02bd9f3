package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mesikahq/clinic-desk/internal/auth"
	"github.com/mesikahq/clinic-desk/internal/middleware"
)

type RouterConfig struct {
	Timeout   time.Duration
	RateLimit rate.Limit
	RateBurst int
}

type Router struct {
	handler        *Handler
	authMiddleware *auth.Middleware
	cfg            RouterConfig
}

func NewRouter(handler *Handler, authService auth.Service, cfg RouterConfig) *Router {
	return &Router{
		handler:        handler,
		authMiddleware: auth.NewMiddleware(authService),
		cfg:            cfg,
	}
}

func (r *Router) SetupRouter(logger *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.SecurityHeaders(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.RateLimit(r.cfg.RateLimit, r.cfg.RateBurst),
		middleware.Timeout(r.cfg.Timeout),
	)

	router.GET("/health", r.handler.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/auth/login", r.handler.Login)

		protected := api.Group("")
		protected.Use(r.authMiddleware.RequireOperator())
		{
			patients := protected.Group("/patients")
			{
				patients.GET("", r.handler.ListPatients)
				patients.POST("", r.handler.RegisterPatient)
				patients.GET("/suggest", r.handler.SuggestPatientNames)
				patients.GET("/:id", r.handler.GetPatient)
				patients.PUT("/:id", r.handler.UpdatePatient)
				patients.DELETE("/:id", r.handler.DeletePatient)
			}

			appointments := protected.Group("/appointments")
			{
				appointments.GET("", r.handler.ListAppointments)
				appointments.POST("", r.handler.ScheduleAppointment)
				appointments.GET("/:id", r.handler.GetAppointment)
				appointments.POST("/:id/complete", r.handler.CompleteAppointment)
				appointments.POST("/:id/cancel", r.handler.CancelAppointment)
			}

			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/summary", r.handler.GetDashboardSummary)
				dashboard.GET("/gender", r.handler.GetGenderBreakdown)
				dashboard.GET("/age", r.handler.GetAgeHistogram)
				dashboard.GET("/insurance", r.handler.GetInsuranceBreakdown)
				dashboard.GET("/appointments-by-month", r.handler.GetAppointmentsByMonth)
				dashboard.GET("/registrations-by-month", r.handler.GetRegistrationsByMonth)
				dashboard.GET("/revenue-by-type", r.handler.GetRevenueByType)
			}

			protected.GET("/audit/logs", r.handler.GetAuditLogs)
			protected.GET("/export/:collection", r.handler.ExportCollection)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
