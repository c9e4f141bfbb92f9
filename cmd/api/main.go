package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"consulthub/internal/config"
	"consulthub/internal/database"
	"consulthub/internal/middleware"
	"consulthub/internal/modules/booking"
	"consulthub/internal/modules/payment"
	"consulthub/internal/paystack"
	jwtsvc "consulthub/internal/pkg/jwt"
	"consulthub/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	bookingRepo := repository.NewBookingRepository(db)
	listingRepo := repository.NewListingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	gateway := paystack.NewClient(cfg.PaystackSecretKey, cfg.PaystackBaseURL, cfg.GatewayTimeout)

	bookingService := booking.NewService(bookingRepo, listingRepo)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(gateway, settlementRepo, paymentRepo, log.Printf)
	paymentHandler := payment.NewHandler(paymentService, gateway, log.Printf)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// gateway callbacks authenticate by signature, not by token
		protected := v1.Group("/")
		protected.Use(middleware.RequireAuth(j))
		{
			bookingHandler.RegisterRoutes(protected)
		}
		paymentHandler.RegisterRoutes(protected, v1)
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
