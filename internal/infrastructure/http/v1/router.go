// Package v1 wires the HTTP API surface.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tourops/internal/domain/auth"
	"tourops/internal/domain/booking"
	"tourops/internal/domain/catalogs/client"
	"tourops/internal/domain/catalogs/hotel"
	"tourops/internal/domain/catalogs/supplier"
	"tourops/internal/domain/catalogs/vehicle"
	"tourops/internal/domain/pricing"
	"tourops/internal/domain/voucher"
	"tourops/internal/infrastructure/http/v1/handlers"
	"tourops/internal/infrastructure/http/v1/middleware"
	"tourops/internal/infrastructure/storage/postgres"
	"tourops/pkg/logger"
)

// RouterConfig holds everything the router needs.
type RouterConfig struct {
	Logger *logger.Logger
	Pool   *postgres.Pool

	JWTValidator middleware.JWTValidator

	AuditService *postgres.AuditService

	AuthService     *auth.Service
	ClientService   *client.Service
	SupplierService *supplier.Service
	HotelService    *hotel.Service
	VehicleService  *vehicle.Service
	PricingService  *pricing.Service
	BookingService  *booking.Service
	VoucherService  *voucher.Service
}

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.Trace(),
		middleware.Logger(cfg.Logger),
		middleware.Metrics(),
		middleware.ErrorHandler(),
	)

	health := handlers.NewHealthHandler(cfg.Pool)
	r.GET("/health/live", health.Live)
	r.GET("/health/ready", health.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	base := handlers.NewBaseHandler()

	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)

	api := r.Group("/api/v1")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWTValidator))

	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/auth/change-password", authHandler.ChangePassword)

	handlers.NewClientHandler(base, cfg.ClientService).RegisterRoutes(protected.Group("/clients"))
	handlers.NewSupplierHandler(base, cfg.SupplierService).RegisterRoutes(protected.Group("/suppliers"))
	handlers.NewHotelHandler(base, cfg.HotelService).RegisterRoutes(protected.Group("/hotels"))
	handlers.NewVehicleHandler(base, cfg.VehicleService).RegisterRoutes(protected.Group("/vehicles"))

	pricingHandler := handlers.NewPricingHandler(base, cfg.PricingService)
	rates := protected.Group("/rate-periods")
	rates.POST("", pricingHandler.CreateRatePeriod)
	rates.GET("", pricingHandler.ListRatePeriods)
	rates.GET("/:id", pricingHandler.GetRatePeriod)
	rates.PUT("/:id", pricingHandler.UpdateRatePeriod)
	rates.POST("/:id/deactivate", pricingHandler.DeactivateRatePeriod)
	protected.GET("/rates/resolve", pricingHandler.ResolveRate)

	bookingHandler := handlers.NewBookingHandler(base, cfg.BookingService)
	voucherHandler := handlers.NewVoucherHandler(base, cfg.VoucherService)
	bookings := protected.Group("/bookings")
	bookings.POST("", bookingHandler.Create)
	bookings.GET("", bookingHandler.List)
	bookings.GET("/:id", bookingHandler.Get)
	bookings.PUT("/:id", bookingHandler.Update)
	bookings.POST("/:id/status", bookingHandler.ChangeStatus)
	bookings.POST("/:id/payments", bookingHandler.RegisterPayment)
	bookings.POST("/:id/recompute", bookingHandler.Recompute)
	bookings.POST("/:id/items", bookingHandler.AddItem)
	bookings.PUT("/:id/items/:itemId", bookingHandler.UpdateItem)
	bookings.DELETE("/:id/items/:itemId", bookingHandler.DeleteItem)
	bookings.POST("/:id/vouchers", voucherHandler.Issue)
	bookings.GET("/:id/vouchers", voucherHandler.ListByBooking)

	auditHandler := handlers.NewAuditHandler(base, cfg.AuditService)
	bookings.GET("/:id/history", auditHandler.BookingHistory)

	return r
}
