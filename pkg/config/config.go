package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	MetricsPort             string
	JWTSecret               string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	RedisAddr               string
	GeminiAPIKey            string
	GeminiModel             string
	GeminiVisionModel       string

	NoticeTTL     time.Duration
	PurchaseDelay time.Duration
	VerifyDelay   time.Duration
	AudioDelay    time.Duration
	SessionTTL    time.Duration
}

// Load reads the configuration from the environment, after applying a .env
// file when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "moments"),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		GeminiAPIKey:            getEnv("GEMINI_API_KEY", ""),
		GeminiModel:             getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiVisionModel:       getEnv("GEMINI_VISION_MODEL", "gemini-2.5-flash"),
		NoticeTTL:               getDuration("NOTICE_TTL", 4*time.Second),
		PurchaseDelay:           getDuration("PURCHASE_DELAY", time.Second),
		VerifyDelay:             getDuration("VERIFY_DELAY", 1500*time.Millisecond),
		AudioDelay:              getDuration("AUDIO_DELAY", 200*time.Millisecond),
		SessionTTL:              getDuration("SESSION_TTL", 72*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Invalid duration %q for %s, using %s", value, key, defaultValue)
		return defaultValue
	}
	return d
}
