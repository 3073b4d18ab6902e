package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bean-harbor/shop-services/internal/shop/events"
	"github.com/bean-harbor/shop-services/internal/shop/handler"
	"github.com/bean-harbor/shop-services/internal/shop/repository"
	"github.com/bean-harbor/shop-services/internal/shop/service"
	"github.com/bean-harbor/shop-services/pkg/config"
	"github.com/bean-harbor/shop-services/pkg/logging"
	"github.com/bean-harbor/shop-services/pkg/middleware"
	"github.com/bean-harbor/shop-services/pkg/server"
	pkgtls "github.com/bean-harbor/shop-services/pkg/tls"
)

func main() {
	cfg, err := config.LoadShop()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	dynamoClient, err := repository.NewDynamoDBClient(cfg)
	if err != nil {
		logger.Fatal("Failed to create DynamoDB client", zap.Error(err))
	}

	customerRepo := repository.NewCustomerRepository(dynamoClient, cfg.CustomersTableName)
	productRepo := repository.NewProductRepository(dynamoClient, cfg.ProductsTableName)
	purchaseRepo := repository.NewPurchaseRepository(dynamoClient, cfg.PurchasesTableName)
	clientRepo := repository.NewClientRepository(dynamoClient, cfg.ClientsTableName)

	var producer events.Producer
	if cfg.KafkaBrokers != "" {
		kafkaProducer := events.NewKafkaProducer(cfg.KafkaBrokers, logger)
		defer kafkaProducer.Close()
		producer = kafkaProducer
	}

	shopService := service.NewShopService(customerRepo, productRepo, purchaseRepo, clientRepo, producer, logger)
	shopHandler := handler.NewShopHandler(shopService, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestID())

	shopHandler.RegisterRoutes(router)

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
