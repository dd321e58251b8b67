package config

import (
	"strings" // Env key replacement
	"time"    // Cache TTL

	"github.com/joho/godotenv" // For loading .env files
	"github.com/spf13/viper"   // Environment binding with defaults
)

// Config holds the application configuration
type Config struct {
	AppPort    string        // Application port
	DBDriver   string        // Database driver: mysql or sqlite
	DBUser     string        // Database user
	DBPassword string        // Database password
	DBHost     string        // Database host
	DBPort     string        // Database port
	DBName     string        // Database name
	SQLitePath string        // SQLite database file, used when DBDriver is sqlite
	RedisAddr  string        // Redis server address, empty disables caching
	RedisPass  string        // Redis password
	RedisDB    int           // Redis database number
	CacheTTL   time.Duration // Lifetime of cached responses
	ModelPath  string        // Model artifact location
	LogLevel   string        // logrus level name
	IsProd     bool          // Is production environment
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "credit_scoring")
	v.SetDefault("SQLITE_PATH", "credit_scoring.db")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 60)
	v.SetDefault("MODEL_PATH", "credit_model.json")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("IS_PROD", false)

	return &Config{
		AppPort:    v.GetString("APP_PORT"),                                    // Application port
		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),                  // Database driver
		DBUser:     v.GetString("DB_USER"),                                     // Database user
		DBPassword: v.GetString("DB_PASSWORD"),                                 // Database password
		DBHost:     v.GetString("DB_HOST"),                                     // Database host
		DBPort:     v.GetString("DB_PORT"),                                     // Database port
		DBName:     v.GetString("DB_NAME"),                                     // Database name
		SQLitePath: v.GetString("SQLITE_PATH"),                                 // SQLite file
		RedisAddr:  v.GetString("REDIS_ADDR"),                                  // Redis server address
		RedisPass:  v.GetString("REDIS_PASS"),                                  // Redis password
		RedisDB:    v.GetInt("REDIS_DB"),                                       // Redis database number
		CacheTTL:   time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second, // Cache lifetime
		ModelPath:  v.GetString("MODEL_PATH"),                                  // Model artifact path
		LogLevel:   v.GetString("LOG_LEVEL"),                                   // Log level
		IsProd:     v.GetBool("IS_PROD"),                                       // Is production environment
	}
}
