package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB.
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	MongoTransactions bool   `mapstructure:"MONGO_TRANSACTIONS"`

	// Auth.
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	AdminKeyHash string `mapstructure:"ADMIN_KEY_HASH"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Booking.
	Timezone              string `mapstructure:"TIMEZONE"`
	RegionCacheTTLSeconds int    `mapstructure:"REGION_CACHE_TTL_SECONDS"`
	ReconcileCron         string `mapstructure:"RECONCILE_CRON"`
	ReconcileGraceMinutes int    `mapstructure:"RECONCILE_GRACE_MINUTES"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "healthcart")
	viper.SetDefault("MONGO_TRANSACTIONS", false)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("ADMIN_KEY_HASH", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("REGION_CACHE_TTL_SECONDS", 60)
	viper.SetDefault("RECONCILE_CRON", "*/15 * * * *")
	viper.SetDefault("RECONCILE_GRACE_MINUTES", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
