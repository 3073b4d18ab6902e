package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bean-harbor/shop-services/internal/wiki/handler"
	"github.com/bean-harbor/shop-services/internal/wiki/wikipedia"
	"github.com/bean-harbor/shop-services/pkg/config"
	"github.com/bean-harbor/shop-services/pkg/logging"
	"github.com/bean-harbor/shop-services/pkg/middleware"
	"github.com/bean-harbor/shop-services/pkg/server"
	pkgtls "github.com/bean-harbor/shop-services/pkg/tls"
)

func main() {
	cfg, err := config.LoadWiki()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	wikiClient := wikipedia.NewClient(wikipedia.Config{
		BaseURL:   cfg.WikiBaseURL,
		UserAgent: cfg.UserAgent,
	})
	wikiHandler := handler.NewWikiHandler(wikiClient, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestID())

	wikiHandler.RegisterRoutes(router)

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
