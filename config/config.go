package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	TokenTTLHours     int    `mapstructure:"TOKEN_TTL_HOURS"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AllowedOrigins    string `mapstructure:"ALLOWED_ORIGINS"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Notifications.
	NotifyAsync          bool `mapstructure:"NOTIFY_ASYNC"`
	BroadcastConcurrency int  `mapstructure:"BROADCAST_CONCURRENCY"`

	// VIN decoding.
	NHTSABaseURL     string  `mapstructure:"NHTSA_BASE_URL"`
	VINCacheTTLHours int     `mapstructure:"VIN_CACHE_TTL_HOURS"`
	VINRequestPrice  float64 `mapstructure:"VIN_REQUEST_PRICE"`

	// Advanced decode reports.
	VehicleDBBaseURL string `mapstructure:"VEHICLE_DATABASES_BASE_URL"`
	VehicleDBAPIKey  string `mapstructure:"VEHICLE_DATABASES_API_KEY"`
}

var AppConfig Config

const defaultOrigins = "https://carvistors.vercel.app,http://192.168.100.72:5173,http://localhost:5173," +
	"http://localhost:3000,http://127.0.0.1:5173,http://127.0.0.1:3000"

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "3000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("TOKEN_TTL_HOURS", 168)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("ALLOWED_ORIGINS", defaultOrigins)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "carvistors")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("NOTIFY_ASYNC", false)
	viper.SetDefault("BROADCAST_CONCURRENCY", 8)
	viper.SetDefault("NHTSA_BASE_URL", "https://vpic.nhtsa.dot.gov/api")
	viper.SetDefault("VIN_CACHE_TTL_HOURS", 24)
	viper.SetDefault("VIN_REQUEST_PRICE", 35)
	viper.SetDefault("VEHICLE_DATABASES_BASE_URL", "https://api.vehicledatabases.com")
	viper.SetDefault("VEHICLE_DATABASES_API_KEY", "")

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

// Origins splits ALLOWED_ORIGINS into a clean list.
func Origins() []string {
	var out []string
	for _, o := range strings.Split(AppConfig.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
