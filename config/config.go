package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DBUrl         string
	JWTSecret     string
	AllowedOrigin string
	FrontendURL   string // Used for sitemap links
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// Asset storage (any S3-compatible bucket: Supabase Storage, R2, S3)
	StorageEndpoint      string
	StorageRegion        string
	StorageAccessKeyID   string
	StorageAccessKey     string
	StorageBucket        string
	StoragePublicURL     string
	StorageUploadTimeout time.Duration
	MaxUploadSizeMB      int64
	// Query cache stale times, per resource
	CacheProductsTTL    time.Duration
	CacheProductTTL     time.Duration
	CacheCategoryTTL    time.Duration
	CacheDetailsTTL     time.Duration
	CacheVideosTTL      time.Duration
	CacheSocialTTL      time.Duration
	CacheAboutTTL       time.Duration
	CacheSitemapTTL     time.Duration
	CacheCleanupPeriod  time.Duration
	CacheRefetchTimeout time.Duration
	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
	// Category bootstrap
	BootstrapTimeout time.Duration
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: .env for local dev, system env otherwise
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBUrl:         getEnv("DB_DSN", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:5173"),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 10),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 2),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		StorageEndpoint:      getEnv("STORAGE_ENDPOINT", ""),
		StorageRegion:        getEnv("STORAGE_REGION", "auto"),
		StorageAccessKeyID:   getEnv("STORAGE_ACCESS_KEY_ID", ""),
		StorageAccessKey:     getEnv("STORAGE_ACCESS_KEY_SECRET", ""),
		StorageBucket:        getEnv("STORAGE_BUCKET", ""),
		StoragePublicURL:     getEnv("STORAGE_PUBLIC_URL", ""),
		StorageUploadTimeout: getDurationEnv("STORAGE_UPLOAD_TIMEOUT", 30*time.Second),
		MaxUploadSizeMB:      getInt64Env("MAX_UPLOAD_SIZE_MB", 10),

		// Reference data caches for minutes, frequently edited data for seconds
		CacheProductsTTL:    getDurationEnv("CACHE_PRODUCTS_TTL", time.Minute),
		CacheProductTTL:     getDurationEnv("CACHE_PRODUCT_TTL", time.Minute),
		CacheCategoryTTL:    getDurationEnv("CACHE_CATEGORY_TTL", 5*time.Minute),
		CacheDetailsTTL:     getDurationEnv("CACHE_DETAILS_TTL", time.Minute),
		CacheVideosTTL:      getDurationEnv("CACHE_VIDEOS_TTL", 30*time.Second),
		CacheSocialTTL:      getDurationEnv("CACHE_SOCIAL_TTL", 10*time.Minute),
		CacheAboutTTL:       getDurationEnv("CACHE_ABOUT_TTL", 10*time.Minute),
		CacheSitemapTTL:     getDurationEnv("CACHE_SITEMAP_TTL", time.Hour),
		CacheCleanupPeriod:  getDurationEnv("CACHE_CLEANUP_PERIOD", 10*time.Minute),
		CacheRefetchTimeout: getDurationEnv("CACHE_REFETCH_TIMEOUT", 30*time.Second),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 40),

		BootstrapTimeout: getDurationEnv("BOOTSTRAP_TIMEOUT", 15*time.Second),
	}
}

// Validate reports settings without which the process cannot start.
func (c *Config) Validate() error {
	var errs []error
	if c.DBUrl == "" {
		errs = append(errs, errors.New("DB_DSN environment variable is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable is required"))
	}
	if c.StorageBucket != "" && (c.StorageEndpoint == "" || c.StoragePublicURL == "") {
		errs = append(errs, errors.New("STORAGE_ENDPOINT and STORAGE_PUBLIC_URL are required when STORAGE_BUCKET is set"))
	}
	return errors.Join(errs...)
}

// StorageEnabled reports whether uploads can be served.
func (c *Config) StorageEnabled() bool {
	return c.StorageBucket != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
		log.Printf("Invalid int64 for %s, using fallback", key)
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Invalid float for %s, using fallback", key)
	}
	return fallback
}

func getInt32Env(key string, fallback int32) int32 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
		log.Printf("Invalid int32 for %s, using fallback", key)
	}
	return fallback
}
