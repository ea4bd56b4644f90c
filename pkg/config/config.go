package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server       ServerConfig
	Upload       UploadConfig
	Analysis     AnalysisConfig
	Redis        RedisConfig
	Storage      StorageConfig
	Capabilities CapabilitiesConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// UploadConfig holds upload validation configuration
type UploadConfig struct {
	MaxDocumentSize    int64
	DocumentExtensions []string
	AudioExtensions    []string
}

// AnalysisConfig tunes the sentiment pipelines
type AnalysisConfig struct {
	WindowSeconds   float64
	WindowTimeout   time.Duration
	ClassifyWorkers int
	MaxHighlights   int
}

// RedisConfig holds Redis configuration for the classify cache
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	CacheEnabled bool
	CacheTTL     time.Duration
}

// StorageConfig holds object storage configuration for upload archival
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// CapabilitiesConfig holds the external ML capability endpoints. Parsed with
// envconfig struct tags rather than the getEnv helpers so defaults live next
// to the fields they belong to.
type CapabilitiesConfig struct {
	Classifier ClassifierConfig
	Speech     SpeechConfig
	Extractor  ExtractorConfig
}

// ClassifierConfig points at the sentence-sentiment inference service
type ClassifierConfig struct {
	URL     string        `envconfig:"CLASSIFIER_URL" default:"https://api-inference.huggingface.co"`
	APIKey  string        `envconfig:"CLASSIFIER_API_KEY"`
	Model   string        `envconfig:"CLASSIFIER_MODEL" default:"nlptown/bert-base-multilingual-uncased-sentiment"`
	Timeout time.Duration `envconfig:"CLASSIFIER_TIMEOUT" default:"30s"`
}

// SpeechConfig holds speech-to-text configuration
type SpeechConfig struct {
	AssemblyAIKey string        `envconfig:"ASSEMBLYAI_API_KEY"`
	Timeout       time.Duration `envconfig:"SPEECH_TIMEOUT" default:"90s"`
}

// ExtractorConfig points at the pdf-tools text extraction service
type ExtractorConfig struct {
	URL     string        `envconfig:"PDF_TOOLS_URL"`
	APIKey  string        `envconfig:"PDF_TOOLS_API_KEY"`
	Timeout time.Duration `envconfig:"PDF_TOOLS_TIMEOUT" default:"60s"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Upload: UploadConfig{
			MaxDocumentSize:    getEnvAsInt64("MAX_DOCUMENT_SIZE", 10485760),
			DocumentExtensions: getEnvAsList("SUPPORTED_FILE_EXTENSIONS", ".pdf,.docx,.txt,.xlsx"),
			AudioExtensions:    getEnvAsList("SUPPORTED_AUDIO_EXTENSIONS", ".wav,.mp3,.m4a,.ogg"),
		},
		Analysis: AnalysisConfig{
			WindowSeconds:   getEnvAsFloat("ANALYSIS_WINDOW_SECONDS", 30),
			WindowTimeout:   getEnvAsDuration("ANALYSIS_WINDOW_TIMEOUT", "2m"),
			ClassifyWorkers: getEnvAsInt("ANALYSIS_CLASSIFY_WORKERS", 4),
			MaxHighlights:   getEnvAsInt("ANALYSIS_MAX_HIGHLIGHTS", 5),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			CacheEnabled: getEnvAsBool("CLASSIFY_CACHE_ENABLED", false),
			CacheTTL:     getEnvAsDuration("CLASSIFY_CACHE_TTL", "24h"),
		},
		Storage: StorageConfig{
			Enabled:         getEnvAsBool("STORAGE_ENABLED", false),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "sentimeter-uploads"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
	}

	if err := envconfig.Process("", &config.Capabilities); err != nil {
		return nil, fmt.Errorf("failed to parse capability config: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Analysis.WindowSeconds <= 0 {
		return fmt.Errorf("ANALYSIS_WINDOW_SECONDS must be positive")
	}
	if c.Analysis.ClassifyWorkers < 1 {
		return fmt.Errorf("ANALYSIS_CLASSIFY_WORKERS must be at least 1")
	}
	if c.Upload.MaxDocumentSize <= 0 {
		return fmt.Errorf("MAX_DOCUMENT_SIZE must be positive")
	}
	if c.Capabilities.Classifier.URL == "" {
		return fmt.Errorf("CLASSIFIER_URL is required")
	}
	return nil
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsList(key string, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
