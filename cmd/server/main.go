package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sergeai-server/internal/config"
	apphttp "sergeai-server/internal/http"
	"sergeai-server/internal/mail"
	"sergeai-server/internal/repository/sqlite"
	"sergeai-server/internal/responder"
	"sergeai-server/internal/service"
	"sergeai-server/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	sessionRepo := sqlite.NewChatSessionRepository(db)
	messageRepo := sqlite.NewChatMessageRepository(db)
	moodRepo := sqlite.NewMoodEntryRepository(db)
	crisisRepo := sqlite.NewCrisisLogRepository(db)
	breathingRepo := sqlite.NewBreathingSessionRepository(db)

	for name, init := range map[string]func(context.Context) error{
		"user":              userRepo.Init,
		"chat session":      sessionRepo.Init,
		"chat message":      messageRepo.Init,
		"mood entry":        moodRepo.Init,
		"crisis log":        crisisRepo.Init,
		"breathing session": breathingRepo.Init,
	} {
		if err := init(ctx); err != nil {
			logger.Fatalf("init %s repository: %v", name, err)
		}
	}

	var generator responder.Generator
	if cfg.OpenAI.APIKey != "" {
		generator, err = responder.NewOpenAIGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		if err != nil {
			logger.Fatalf("setup model client: %v", err)
		}
		logger.Infof("using model %s for chat responses", cfg.OpenAI.Model)
	} else {
		logger.Info("no model API key configured, using built-in responses")
	}
	replies := responder.New(generator, logger)

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	var mailer mail.Mailer
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
		logger.Infof("sending mail through %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	} else {
		mailer = mail.NewLogMailer(logger)
		logger.Info("no SMTP relay configured, reset links will be logged")
	}

	userService := service.NewUserService(userRepo, time.Duration(cfg.Auth.ResetTTLMinutes)*time.Minute)
	chatService := service.NewChatService(sessionRepo, messageRepo, crisisRepo, replies, logger)
	moodService := service.NewMoodService(moodRepo)
	crisisService := service.NewCrisisService(crisisRepo)
	breathingService := service.NewBreathingService(breathingRepo)
	adminService := service.NewAdminService(userRepo, sessionRepo, messageRepo, moodRepo, crisisRepo, breathingRepo)
	exportService := service.NewExportService(
		userRepo, sessionRepo, messageRepo, moodRepo, breathingRepo,
		storageSvc, cfg.Storage.Bucket, cfg.Storage.KeyPrefix, logger,
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(apphttp.HandlerConfig{
		Users:          userService,
		Chat:           chatService,
		Moods:          moodService,
		Crisis:         crisisService,
		Breathing:      breathingService,
		Admin:          adminService,
		Export:         exportService,
		Mailer:         mailer,
		Logger:         logger,
		JWTSecret:      []byte(cfg.Auth.JWTSecret),
		TokenTTL:       time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute,
		FrontendURL:    cfg.Frontend.URL,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

// buildStorage returns nil when no bucket is configured; export archival is
// then disabled.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("no storage bucket configured, export archival disabled")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
