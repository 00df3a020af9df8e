package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"padelcourt/cmd/internal/auth"
	"padelcourt/cmd/internal/config"
	"padelcourt/cmd/internal/domain/database"
	"padelcourt/cmd/internal/domain/database/repository"
	"padelcourt/cmd/internal/integration/aws/s3"
	"padelcourt/cmd/internal/integration/localfs"
	"padelcourt/cmd/internal/integration/mail"
	"padelcourt/cmd/internal/integration/mq"
	"padelcourt/cmd/internal/metrics"
	"padelcourt/cmd/internal/realtime"
	"padelcourt/cmd/internal/routes"
	"padelcourt/cmd/internal/service"
	"padelcourt/cmd/internal/utils/validators"
	"padelcourt/cmd/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}
	log.SetLevel(cfg.GommonLevel())

	validate := validator.New()
	validators.Register(validate)
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := database.Init(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("failed to initialize database: ", err)
	}
	if cfg.Seed {
		if err = database.Seed(db); err != nil {
			log.Fatal("failed to seed database: ", err)
		}
	}

	// Realtime presence, shared through redis when configured
	var presence realtime.PresenceStore = realtime.NewMemoryPresenceStore()
	if cfg.RedisURL != "" {
		store, err := realtime.NewRedisPresenceStore(cfg.RedisURL)
		if err != nil {
			log.Fatal("failed to initialize presence store: ", err)
		}
		defer store.Close()
		presence = store
	}
	hub := realtime.NewHub(presence)
	go func() {
		if err := hub.Run(ctx); err != nil {
			log.Errorf("realtime hub stopped: %v", err)
		}
	}()

	// Email: queued through asynq when redis is available
	var sender mail.Sender = mail.LogSender{}
	if cfg.MailEnabled() {
		sender, err = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
		if err != nil {
			log.Fatal("failed to initialize smtp sender: ", err)
		}
	}
	var emailQueue service.EmailQueue = worker.NewInlineQueue(sender)
	if cfg.RedisURL != "" {
		client, err := worker.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal("failed to initialize task client: ", err)
		}
		defer client.Close()

		srv, err := worker.NewServer(cfg.RedisURL, sender)
		if err != nil {
			log.Fatal("failed to initialize task server: ", err)
		}
		go func() {
			if err := srv.Start(); err != nil {
				log.Errorf("task server stopped: %v", err)
			}
		}()
		defer srv.Shutdown()
		emailQueue = client
	}

	// Domain events
	var events service.EventPublisher = mq.NopPublisher{}
	if cfg.AMQPURL != "" {
		pub, err := mq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal("failed to initialize event publisher: ", err)
		}
		defer pub.Close()
		events = pub
	}

	// Gallery storage
	var images service.ImageStore
	if cfg.GalleryBackend == "s3" {
		images, err = s3.NewImageStore(ctx, cfg.S3Bucket, cfg.S3PublicURL)
	} else {
		images, err = localfs.NewImageStore(cfg.GalleryDir, cfg.GalleryBaseURL)
	}
	if err != nil {
		log.Fatal("failed to initialize image store: ", err)
	}

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	courtRepo := repository.NewCourtRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	effects := &service.SideEffects{Broadcaster: hub, Mail: emailQueue, Events: events}
	tokens := auth.NewTokenIssuer(cfg.JWTAccessSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	window := service.BookingWindow{Open: cfg.BookingOpenHour, Close: cfg.BookingCloseHour}

	// Getting services
	authService := service.NewAuthService(userRepo, tokenRepo, tokens, validate)
	userService := service.NewUserService(userRepo, tokenRepo, hub, validate)
	messageService := service.NewMessageService(repository.NewMessageRepository(db), userRepo, effects)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = routes.HTTPErrorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Infof("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))

	routes.Register(e, routes.Services{
		Auth:          authService,
		Users:         userService,
		Courts:        service.NewCourtService(courtRepo, validate),
		Bookings:      service.NewBookingService(bookingRepo, courtRepo, userRepo, window, effects, validate),
		WaitList:      service.NewWaitListService(repository.NewWaitListRepository(db), bookingRepo, courtRepo, validate),
		Notifications: service.NewNotificationService(repository.NewNotificationRepository(db), userRepo, effects, validate),
		Messages:      messageService,
		Exports:       service.NewExportService(bookingRepo),
		Gallery:       service.NewGalleryService(repository.NewGalleryRepository(db), images, validate),
		Contact:       service.NewContactService(repository.NewContactRepository(db), cfg.AdminEmail, effects, validate),
		Audit:         service.NewAuditService(repository.NewAuditRepository(db), validate),
	}, routes.Limits{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst})

	gateway := realtime.NewGateway(hub, authService, messageService, userService, cfg.CORSOrigins)
	e.GET("/ws", gateway.Serve)
	if cfg.GalleryBackend != "s3" {
		e.Static(cfg.GalleryBaseURL, cfg.GalleryDir)
	}

	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server: ", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("failed to shut down http server: %v", err)
	}
}
