package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"itcommunity/config"
	"itcommunity/infrastructure"
	"itcommunity/interfaces"
	"itcommunity/usecase"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := infrastructure.NewLogger(cfg)
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	if err := infrastructure.ConfigureUnidoc(cfg.Uploads.UnidocLicenseKey); err != nil {
		log.WithError(err).Warn("PDF text extraction is unlicensed")
	}

	db, err := infrastructure.NewDatabase(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect database")
	}

	// Notification queue
	var publisher usecase.EventPublisher
	var rmq *infrastructure.RabbitMQ
	if cfg.RabbitMQ.Enabled {
		rmq, err = infrastructure.NewRabbitMQ(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect RabbitMQ")
		}
		defer rmq.Close()
		publisher = rmq
	}
	notifications := usecase.NewNotificationService(db, publisher, log)

	if rmq != nil {
		err := rmq.ConsumeNotifications(func(event infrastructure.NotificationEvent) error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.WithFields(logrus.Fields{
				"notification_id": event.NotificationID,
				"user_id":         event.UserID,
				"type":            event.Type,
			}).Debug("Delivering notification")
			return notifications.MarkDelivered(ctx, event.NotificationID)
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to start notification worker")
		}
	}

	probes := map[string]interfaces.Pinger{}

	// Metrics cache
	var metricsCache usecase.MetricsCache
	if cfg.Redis.Enabled {
		cache, err := infrastructure.NewRedisCache(cfg.Redis.URL, cfg.Redis.MetricsTTL)
		if err != nil {
			log.WithError(err).Fatal("Failed to configure Redis")
		}
		defer cache.Close()
		metricsCache = cache
		probes["redis"] = cache
	}

	// Resume storage
	var blobs infrastructure.BlobStore
	switch cfg.Uploads.Storage {
	case "spaces":
		spaces, err := infrastructure.NewSpacesBlobStore(infrastructure.SpacesConfig{
			Endpoint:  cfg.Uploads.Spaces.Endpoint,
			Region:    cfg.Uploads.Spaces.Region,
			Bucket:    cfg.Uploads.Spaces.Bucket,
			AccessKey: cfg.Uploads.Spaces.AccessKey,
			SecretKey: cfg.Uploads.Spaces.SecretKey,
			PublicURL: cfg.Uploads.Spaces.PublicURL,
		}, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to configure Spaces storage")
		}
		blobs = spaces
		probes["spaces"] = spaces
	case "local", "":
		blobs = infrastructure.NewLocalBlobStore(cfg.Uploads.Dir, "/uploads")
	default:
		log.WithField("storage", cfg.Uploads.Storage).Fatal("Unknown upload storage")
	}

	services := interfaces.Services{
		Jobs:          usecase.NewJobService(db, notifications, log),
		Admin:         usecase.NewAdminService(db, notifications, metricsCache, log),
		Content:       usecase.NewContentService(db, log),
		Notifications: notifications,
		Uploads:       usecase.NewUploadService(db, infrastructure.NewResumeStore(blobs, cfg.Uploads.MaxResumeSize), log),
		Activities:    usecase.NewActivityLog(db),
	}
	tokens := infrastructure.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	if cfg.Scheduler.Enabled {
		maintenance := usecase.NewMaintenanceService(db, cfg.Scheduler.NotificationRetention, log)
		scheduler := infrastructure.NewScheduler(log, time.Minute)
		err := scheduler.Add("sweep", cfg.Scheduler.Sweep, func(ctx context.Context) error {
			_, err := maintenance.Sweep(ctx)
			return err
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to schedule maintenance")
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	gin.SetMode(cfg.Server.Mode)
	if err := interfaces.RegisterValidators(); err != nil {
		log.WithError(err).Fatal("Failed to register validators")
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.Uploads.MaxResumeSize + 1<<20
	router.Use(gin.Recovery(), interfaces.RequestID(), interfaces.AccessLog(log), interfaces.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	if cfg.Uploads.Storage != "spaces" {
		router.Static("/uploads", cfg.Uploads.Dir)
	}
	interfaces.NewHTTPHandler(router, services, tokens, db, probes, log)

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
}
