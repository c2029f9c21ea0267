package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration. Values come from the
// environment, optionally seeded from a .env file.
type Config struct {
	AppPort string
	AppMode string

	MongoURI       string
	MongoDBName    string
	MongoRetryWait time.Duration

	// Directory served under /uploads when local media storage is used.
	UploadDir string

	// Delivery simulation delays for locally-sent messages.
	DeliveredDelay time.Duration
	ReadDelay      time.Duration

	// Optional. When RedisHost is empty the server runs without Redis:
	// events stay in-process and rate limiting is disabled.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Optional S3 media storage. Local disk is used when Bucket is empty.
	S3Region     string
	S3Bucket     string
	S3AccessKey  string
	S3SecretKey  string
	S3Endpoint   string
	S3PublicBase string

	CORSOrigin string

	SendRateLimit  int
	SendRateWindow time.Duration
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:        getEnv("APP_PORT", "8080"),
		AppMode:        getEnv("APP_MODE", "debug"),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDBName:    getEnv("MONGO_DB_NAME", "whatsapp"),
		MongoRetryWait: getEnvAsDuration("MONGO_RETRY_WAIT_MS", 5000),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		DeliveredDelay: getEnvAsDuration("DELIVERED_DELAY_MS", 800),
		ReadDelay:      getEnvAsDuration("READ_DELAY_MS", 2200),
		RedisHost:      getEnv("REDIS_HOST", ""),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		S3Region:       getEnv("S3_REGION", ""),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3PublicBase:   getEnv("S3_PUBLIC_BASE", ""),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		SendRateLimit:  getEnvAsInt("SEND_RATE_LIMIT", 60),
		SendRateWindow: getEnvAsDuration("SEND_RATE_WINDOW_MS", 60000),
	}
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// S3Enabled reports whether S3 media storage was configured.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallbackMs int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallbackMs)) * time.Millisecond
}
