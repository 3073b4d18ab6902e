package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/bean-harbor/shop-services/pkg/tls"
)

// ShopConfig configures the database (shop) service.
type ShopConfig struct {
	Port               string `envconfig:"PORT" default:"5001"`
	AWSRegion          string `envconfig:"AWS_REGION" default:"eu-central-1"`
	CustomersTableName string `envconfig:"CUSTOMERS_TABLE_NAME" default:"customers"`
	ProductsTableName  string `envconfig:"PRODUCTS_TABLE_NAME" default:"products"`
	PurchasesTableName string `envconfig:"PURCHASES_TABLE_NAME" default:"purchases"`
	ClientsTableName   string `envconfig:"CLIENTS_TABLE_NAME" default:"clients"`
	KafkaBrokers       string `envconfig:"KAFKA_BROKERS" default:""` // empty disables event publishing
	LogLevel           string `envconfig:"LOG_LEVEL" default:"info"`
	TLS                tls.Config
}

// CaptureConfig configures the webcam capture service.
type CaptureConfig struct {
	Port           string `envconfig:"PORT" default:"5454"`
	AWSRegion      string `envconfig:"AWS_REGION" default:"eu-central-1"`
	S3Bucket       string `envconfig:"S3_BUCKET" default:"webcamera-app-dev"`
	CameraDevice   string `envconfig:"CAMERA_DEVICE" default:"/dev/video0"`
	UploadDir      string `envconfig:"UPLOAD_DIR" default:"/app/uploads"`
	DeleteAfterSec int    `envconfig:"DELETE_AFTER_SEC" default:"240"`
	PresignTTLSec  int    `envconfig:"PRESIGN_TTL_SEC" default:"3600"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	TLS            tls.Config
}

// WikiConfig configures the knowledge lookup service.
type WikiConfig struct {
	Port        string `envconfig:"PORT" default:"8000"`
	WikiBaseURL string `envconfig:"WIKI_BASE_URL" default:"https://en.wikipedia.org"`
	UserAgent   string `envconfig:"WIKI_USER_AGENT" default:"bean-harbor-shop (hello@bean-harbor.dev)"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	TLS         tls.Config
}

// GatewayConfig configures the browser-facing gateway.
type GatewayConfig struct {
	Port          string `envconfig:"PORT" default:"5000"`
	ShopURL       string `envconfig:"SHOP_URL" default:"http://shop:5001"`
	CaptureURL    string `envconfig:"CAPTURE_URL" default:"http://capture:5454"`
	WikiURL       string `envconfig:"WIKI_URL" default:"http://wiki:8000"`
	AWSRegion     string `envconfig:"AWS_REGION" default:"eu-central-1"`
	MailSender    string `envconfig:"MAIL_SENDER" default:""`
	MailRecipient string `envconfig:"MAIL_RECIPIENT" default:""`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	TLS           tls.Config
}

func LoadShop() (*ShopConfig, error) {
	_ = godotenv.Load()
	var cfg ShopConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadCapture() (*CaptureConfig, error) {
	_ = godotenv.Load()
	var cfg CaptureConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadWiki() (*WikiConfig, error) {
	_ = godotenv.Load()
	var cfg WikiConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadGateway() (*GatewayConfig, error) {
	_ = godotenv.Load()
	var cfg GatewayConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
