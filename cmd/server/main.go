// Package main is the entry point for the tourops API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tourops/internal/domain/auth"
	"tourops/internal/domain/booking"
	"tourops/internal/domain/catalogs/client"
	"tourops/internal/domain/catalogs/hotel"
	"tourops/internal/domain/catalogs/supplier"
	"tourops/internal/domain/catalogs/vehicle"
	"tourops/internal/domain/pricing"
	"tourops/internal/domain/voucher"
	v1 "tourops/internal/infrastructure/http/v1"
	"tourops/internal/infrastructure/sequence"
	"tourops/internal/infrastructure/storage/postgres"
	"tourops/internal/infrastructure/storage/postgres/auth_repo"
	"tourops/internal/infrastructure/storage/postgres/booking_repo"
	"tourops/internal/infrastructure/storage/postgres/catalog_repo"
	"tourops/internal/infrastructure/storage/postgres/pricing_repo"
	"tourops/pkg/logger"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting tourops server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			postgres.LogPoolStats(ctx, pool.Unwrap())
		}
	}()

	txManager := postgres.NewTxManager(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Sequence allocator ---
	allocator := sequence.New(pool)

	// --- Auth ---
	jwtSecret := mustEnv("JWT_SECRET")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	userRepo := auth_repo.NewUserRepo(txManager)
	authService := auth.NewService(userRepo, txManager, jwtService, auth.DefaultServiceConfig())

	// --- Catalogs ---
	clientService := client.NewService(catalog_repo.NewClientRepo(txManager), txManager)
	supplierService := supplier.NewService(catalog_repo.NewSupplierRepo(txManager), txManager)
	hotelService := hotel.NewService(catalog_repo.NewHotelRepo(txManager), txManager)
	vehicleService := vehicle.NewService(catalog_repo.NewVehicleRepo(txManager), txManager)

	// --- Pricing ---
	pricingService := pricing.NewService(pricing_repo.NewRatePeriodRepo(txManager), txManager)
	pricingService.SetAuditRecorder(auditService)

	// --- Bookings and vouchers ---
	bookingRepo := booking_repo.NewBookingRepo(txManager)
	itemRepo := booking_repo.NewItemRepo(txManager)
	voucherRepo := booking_repo.NewVoucherRepo(txManager)

	bookingService := booking.NewService(bookingRepo, itemRepo, allocator, txManager)
	bookingService.SetAuditRecorder(auditService)
	voucherService := voucher.NewService(voucherRepo, allocator, txManager)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:          log,
		Pool:            pool,
		JWTValidator:    jwtService,
		AuditService:    auditService,
		AuthService:     authService,
		ClientService:   clientService,
		SupplierService: supplierService,
		HotelService:    hotelService,
		VehicleService:  vehicleService,
		PricingService:  pricingService,
		BookingService:  bookingService,
		VoucherService:  voucherService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
