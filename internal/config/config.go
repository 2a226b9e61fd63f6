package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	PostgreSQL PostgreSQLConfig
	Redis      RedisConfig
	OpenAI     OpenAIConfig
	Classifier ClassifierConfig
	Narration  NarrationConfig
	Captions   CaptionConfig
	Timing     TimingConfig
	Retention  RetentionConfig
	Listing    ListingConfig

	// CategoryTableFile optionally overrides the built-in room keyword table
	CategoryTableFile string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// PostgreSQLConfig holds run log database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, preferred over the individual fields
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	Enabled            bool // RUN_LOG_ENABLED
}

// RedisConfig holds the async job queue configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Queue    string
	JobTTL   time.Duration
	Enabled  bool
}

// OpenAIConfig holds vision service configuration
type OpenAIConfig struct {
	APIKey      string
	APIBase     string
	VisionModel string
	Detail      string // image detail hint: low, high or auto
	Enabled     bool
}

// ClassifierConfig controls how photos are scheduled against the vision service
type ClassifierConfig struct {
	Delay              time.Duration
	Concurrency        int
	Timeout            time.Duration
	FallbackConfidence float64
	MaxImages          int
}

// NarrationConfig holds speaking-rate settings for duration estimates
type NarrationConfig struct {
	WordsPerMinute  float64
	SpeedMultiplier float64
	MinSeconds      float64
	MaxSeconds      float64 // 0 disables the ceiling
}

// CaptionConfig holds caption chunking settings
type CaptionConfig struct {
	ChunkWords      int
	MinChunkWords   int
	MinChunkSeconds float64
	StartOffset     float64
	Gap             float64
	ClampToDuration bool
}

// TimingConfig holds per-image timing settings
type TimingConfig struct {
	MinPerImageSeconds float64
}

// RetentionConfig controls pruning of old run log rows
type RetentionConfig struct {
	Schedule string // cron expression, empty disables pruning
	Days     int
}

// ListingConfig controls listing-page photo discovery
type ListingConfig struct {
	FetchTimeout time.Duration
	MaxPhotos    int
	UserAgent    string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "listing_video"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
			Enabled:            getEnvAsBool("RUN_LOG_ENABLED", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Queue:    getEnv("REDIS_QUEUE", "sequence_jobs"),
			JobTTL:   getEnvAsDuration("JOB_TTL", 24*time.Hour),
			Enabled:  getEnv("REDIS_ADDR", "") != "",
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			APIBase:     getEnv("OPENAI_API_BASE", ""),
			VisionModel: getEnv("OPENAI_VISION_MODEL", "gpt-4o-mini"),
			Detail:      getEnv("OPENAI_IMAGE_DETAIL", "low"),
			Enabled:     getEnv("OPENAI_API_KEY", "") != "",
		},
		Classifier: ClassifierConfig{
			Delay:              getEnvAsDuration("CLASSIFIER_DELAY", 400*time.Millisecond),
			Concurrency:        getEnvAsInt("CLASSIFIER_CONCURRENCY", 1),
			Timeout:            getEnvAsDuration("CLASSIFIER_TIMEOUT", 20*time.Second),
			FallbackConfidence: getEnvAsFloat("CLASSIFIER_FALLBACK_CONFIDENCE", 0.2),
			MaxImages:          getEnvAsInt("MAX_IMAGES", 40),
		},
		Narration: NarrationConfig{
			WordsPerMinute:  getEnvAsFloat("NARRATION_WPM", 150),
			SpeedMultiplier: getEnvAsFloat("NARRATION_SPEED", 1.0),
			MinSeconds:      getEnvAsFloat("NARRATION_MIN_SECONDS", 15),
			MaxSeconds:      getEnvAsFloat("NARRATION_MAX_SECONDS", 0),
		},
		Captions: CaptionConfig{
			ChunkWords:      getEnvAsInt("CAPTION_CHUNK_WORDS", 4),
			MinChunkWords:   getEnvAsInt("CAPTION_MIN_CHUNK_WORDS", 2),
			MinChunkSeconds: getEnvAsFloat("CAPTION_MIN_SECONDS", 2.0),
			StartOffset:     getEnvAsFloat("CAPTION_START_OFFSET", 0.5),
			Gap:             getEnvAsFloat("CAPTION_GAP", 0.1),
			ClampToDuration: getEnvAsBool("CAPTION_CLAMP", false),
		},
		Timing: TimingConfig{
			MinPerImageSeconds: getEnvAsFloat("TIMING_MIN_PER_IMAGE", 2.0),
		},
		Retention: RetentionConfig{
			Schedule: getEnv("RETENTION_SCHEDULE", "0 3 * * *"),
			Days:     getEnvAsInt("RETENTION_DAYS", 30),
		},
		Listing: ListingConfig{
			FetchTimeout: getEnvAsDuration("LISTING_FETCH_TIMEOUT", 15*time.Second),
			MaxPhotos:    getEnvAsInt("LISTING_MAX_PHOTOS", 30),
			UserAgent:    getEnv("LISTING_USER_AGENT", "Mozilla/5.0 (compatible; listing-video-sequencer/1.0)"),
		},
		CategoryTableFile: getEnv("CATEGORY_TABLE_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the engine cannot work with
func (c *Config) Validate() error {
	var errs []error

	if c.Narration.WordsPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("NARRATION_WPM must be positive, got %v", c.Narration.WordsPerMinute))
	}
	if c.Narration.SpeedMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("NARRATION_SPEED must be positive, got %v", c.Narration.SpeedMultiplier))
	}
	if c.Narration.MaxSeconds > 0 && c.Narration.MaxSeconds < c.Narration.MinSeconds {
		errs = append(errs, fmt.Errorf("NARRATION_MAX_SECONDS (%v) is below NARRATION_MIN_SECONDS (%v)", c.Narration.MaxSeconds, c.Narration.MinSeconds))
	}
	if c.Captions.ChunkWords < 1 {
		errs = append(errs, fmt.Errorf("CAPTION_CHUNK_WORDS must be at least 1, got %d", c.Captions.ChunkWords))
	}
	if c.Captions.MinChunkSeconds <= c.Captions.Gap {
		errs = append(errs, fmt.Errorf("CAPTION_MIN_SECONDS (%v) must exceed CAPTION_GAP (%v)", c.Captions.MinChunkSeconds, c.Captions.Gap))
	}
	if c.Captions.StartOffset < 0 || c.Captions.Gap < 0 {
		errs = append(errs, errors.New("CAPTION_START_OFFSET and CAPTION_GAP must not be negative"))
	}
	if c.Classifier.FallbackConfidence < 0 || c.Classifier.FallbackConfidence > 1 {
		errs = append(errs, fmt.Errorf("CLASSIFIER_FALLBACK_CONFIDENCE must be within [0,1], got %v", c.Classifier.FallbackConfidence))
	}
	if c.Classifier.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("CLASSIFIER_CONCURRENCY must be at least 1, got %d", c.Classifier.Concurrency))
	}
	if c.Timing.MinPerImageSeconds < 0 {
		errs = append(errs, fmt.Errorf("TIMING_MIN_PER_IMAGE must not be negative, got %v", c.Timing.MinPerImageSeconds))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// SplitList splits a comma-separated setting, dropping blanks
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("400ms") or plain seconds ("20")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if seconds, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return time.Duration(seconds * float64(time.Second))
	}
	log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
	return defaultValue
}
