package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bean-harbor/shop-services/internal/gateway/client"
	"github.com/bean-harbor/shop-services/internal/gateway/handler"
	"github.com/bean-harbor/shop-services/internal/gateway/mailer"
	"github.com/bean-harbor/shop-services/internal/gateway/templates"
	"github.com/bean-harbor/shop-services/pkg/config"
	"github.com/bean-harbor/shop-services/pkg/logging"
	"github.com/bean-harbor/shop-services/pkg/middleware"
	"github.com/bean-harbor/shop-services/pkg/server"
	pkgtls "github.com/bean-harbor/shop-services/pkg/tls"
)

func main() {
	cfg, err := config.LoadGateway()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	shopBackend := client.NewBackend("shop", cfg.ShopURL)
	captureBackend := client.NewBackend("capture", cfg.CaptureURL)
	wikiBackend := client.NewBackend("wiki", cfg.WikiURL)

	var mail mailer.Mailer
	if cfg.MailSender != "" && cfg.MailRecipient != "" {
		sesClient, err := mailer.NewSESClient(context.Background(), cfg.AWSRegion)
		if err != nil {
			logger.Fatal("Failed to create SES client", zap.Error(err))
		}
		mail = mailer.NewSESMailer(sesClient, cfg.MailSender, cfg.MailRecipient, logger)
	}

	gatewayHandler := handler.NewGatewayHandler(shopBackend, captureBackend, wikiBackend, mail, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestID())
	router.SetHTMLTemplate(templates.Load())

	gatewayHandler.RegisterRoutes(router)

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
