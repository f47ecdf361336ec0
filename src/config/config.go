package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
	DATE_PARSE_FORMAT = "2006-01-02"
	// Midtrans order_time format for custom_expiry.
	ORDER_TIME_FORMAT = "2006-01-02 15:04:05 -0700"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

// AppConfig is built once at boot and handed to the fulfillment engine
// explicitly; the pricing and quota code never reads the environment.
type AppConfig struct {
	Currency            string
	ChannelCode         string
	AdminFee            int64
	AdminFeeDiscountPct float64
	GatewayProviders    []string
	MidtransBaseURL     string
	MidtransServerKey   string
	FulfillmentTimeout  time.Duration
	SecretKey           []byte
}

var (
	appConfig AppConfig
	loadOnce  sync.Once
)

func GetAppConfig() AppConfig {
	loadOnce.Do(func() {
		adminFee, err := strconv.ParseInt(os.Getenv("ADMIN_FEE"), 10, 64)
		if err != nil {
			adminFee = 5000
		}
		adminFeeDiscount, err := strconv.ParseFloat(os.Getenv("ADMIN_FEE_DISCOUNT_PCT"), 64)
		if err != nil {
			adminFeeDiscount = 0
		}
		providers := strings.Split(os.Getenv("GATEWAY_PROVIDERS"), ",")
		if len(providers) == 1 && providers[0] == "" {
			providers = []string{"midtrans"}
		}
		timeoutSec, err := strconv.Atoi(os.Getenv("FULFILLMENT_TIMEOUT_SECONDS"))
		if err != nil || timeoutSec <= 0 {
			timeoutSec = 30
		}
		channel := os.Getenv("CHANNEL_CODE")
		if channel == "" {
			channel = "WB"
		}
		appConfig = AppConfig{
			Currency:            "IDR",
			ChannelCode:         channel,
			AdminFee:            adminFee,
			AdminFeeDiscountPct: adminFeeDiscount,
			GatewayProviders:    providers,
			MidtransBaseURL:     os.Getenv("MIDTRANS_BASE_URL"),
			MidtransServerKey:   os.Getenv("MIDTRANS_SERVER_KEY"),
			FulfillmentTimeout:  time.Duration(timeoutSec) * time.Second,
			SecretKey:           []byte(os.Getenv("SECRET_KEY")),
		}
	})
	return appConfig
}

// NewAppConfig replaces the cached config, for tests.
func NewAppConfig(cfg AppConfig) {
	loadOnce.Do(func() {})
	appConfig = cfg
}
