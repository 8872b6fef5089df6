package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/lapster88/anchorpoint/config"
	"github.com/lapster88/anchorpoint/internal/consumer"
	"github.com/lapster88/anchorpoint/internal/gateway"
	"github.com/lapster88/anchorpoint/internal/handler"
	"github.com/lapster88/anchorpoint/internal/mailer"
	"github.com/lapster88/anchorpoint/internal/middleware"
	"github.com/lapster88/anchorpoint/internal/repository"
	"github.com/lapster88/anchorpoint/internal/service"
	"github.com/lapster88/anchorpoint/pkg/database"
	"github.com/lapster88/anchorpoint/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ publisher: post-commit booking notifications
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Printf("rabbitmq unavailable, notifications disabled: %v", err)
		publisher = nil
	} else {
		defer publisher.Close()
	}

	// RabbitMQ consumer: payment status sync from the gateway webhook bridge
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Printf("rabbitmq consumer unavailable, payment sync disabled: %v", err)
	} else {
		defer mqConsumer.Close()
		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.Fatalf("failed to start consuming: %v", err)
		}
		consumer.NewPaymentConsumer(db).Start(msgs)
	}

	// Repositories
	tripRepo := repository.NewTripRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	partyRepo := repository.NewPartyRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	// Payment gateway + mail
	var checkout gateway.CheckoutClient
	if cfg.PaymentsStubMode {
		checkout = gateway.NewStubClient(cfg.FrontendURL)
	} else {
		checkout = gateway.NewStripeClient(cfg.StripeSecretKey, cfg.FrontendURL)
	}
	sender := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	// Services
	propagator := service.NewAvailabilityPropagator(availabilityRepo)
	tokenSvc := service.NewTokenService(tokenRepo, guestRepo, partyRepo)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, tripRepo, membershipRepo, propagator, publisher)
	membershipSvc := service.NewMembershipService(membershipRepo, assignmentRepo, propagator)
	templateSvc := service.NewTemplateService(templateRepo)
	tripSvc := service.NewTripService(tripRepo, templateRepo, assignmentSvc, propagator, publisher)
	partySvc := service.NewPartyService(partyRepo, guestRepo, paymentRepo, tripRepo,
		tokenSvc, checkout, sender, publisher, cfg.FrontendURL, cfg.DefaultFromEmail)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "anchorpoint"})
	})

	handler.NewTripHandler(tripSvc, partySvc, assignmentSvc).RegisterRoutes(e)
	handler.NewTemplateHandler(templateSvc).RegisterRoutes(e)
	handler.NewGuestHandler(tokenSvc).RegisterRoutes(e)
	handler.NewRosterHandler(membershipSvc, availabilityRepo).RegisterRoutes(e)

	log.Printf("Anchorpoint booking service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
