package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bean-harbor/shop-services/internal/capture/camera"
	"github.com/bean-harbor/shop-services/internal/capture/handler"
	"github.com/bean-harbor/shop-services/internal/capture/janitor"
	"github.com/bean-harbor/shop-services/internal/capture/storage"
	"github.com/bean-harbor/shop-services/pkg/config"
	"github.com/bean-harbor/shop-services/pkg/logging"
	"github.com/bean-harbor/shop-services/pkg/middleware"
	"github.com/bean-harbor/shop-services/pkg/server"
	pkgtls "github.com/bean-harbor/shop-services/pkg/tls"
)

func main() {
	cfg, err := config.LoadCapture()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Fatal("Failed to create upload dir", zap.Error(err))
	}

	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logger.Fatal("Failed to create S3 client", zap.Error(err))
	}

	store := storage.NewS3Store(s3Client, cfg.S3Bucket, time.Duration(cfg.PresignTTLSec)*time.Second, logger)
	grabber := camera.NewV4L2Grabber(cfg.CameraDevice)
	cleaner := janitor.New(cfg.UploadDir, time.Duration(cfg.DeleteAfterSec)*time.Second, logger)
	defer cleaner.Stop()

	captureHandler := handler.NewCaptureHandler(grabber, store, cleaner, cfg.UploadDir, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestID())

	captureHandler.RegisterRoutes(router)

	tlsConfig, err := pkgtls.Load(&cfg.TLS, logger)
	if err != nil {
		logger.Fatal("Failed to load TLS config", zap.Error(err))
	}
	defer pkgtls.Cleanup()
	if tlsConfig != nil {
		go pkgtls.WatchCertificates(logger)
	}

	if err := server.Run(cfg.Port, router, tlsConfig, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
