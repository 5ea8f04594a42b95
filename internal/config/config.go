package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by AI_BACKEND, SESSION_BACKEND and PHOTO_BACKEND.
const (
	AIGemini = "gemini"
	AIClaude = "claude"
	AIStub   = "stub"

	SessionSQLite = "sqlite"
	SessionRedis  = "redis"

	PhotoLocal = "local"
	PhotoMinio = "minio"
)

// stubCredential lets the offline gateway pass request validation.
const stubCredential = "stub"

type Config struct {
	ListenAddr string `yaml:"listenAddr"`
	DBPath     string `yaml:"dbPath"`

	AIBackend         string `yaml:"aiBackend"`
	GeminiAPIKey      string `yaml:"geminiAPIKey"`
	GeminiBaseURL     string `yaml:"geminiBaseURL"`
	GeminiChatModel   string `yaml:"geminiChatModel"`
	GeminiVisionModel string `yaml:"geminiVisionModel"`
	ClaudeAPIKey      string `yaml:"claudeAPIKey"`
	ClaudeModel       string `yaml:"claudeModel"`

	SessionBackend string `yaml:"sessionBackend"`
	RedisAddr      string `yaml:"redisAddr"`
	RedisPassword  string `yaml:"redisPassword"`

	PhotoBackend   string `yaml:"photoBackend"`
	PhotoPath      string `yaml:"photoLocalPath"`
	MinioEndpoint  string `yaml:"minioEndpoint"`
	MinioAccessKey string `yaml:"minioAccessKey"`
	MinioSecretKey string `yaml:"minioSecretKey"`
	MinioBucket    string `yaml:"minioBucket"`
	MinioUseSSL    bool   `yaml:"minioUseSSL"`

	LogLevel string `yaml:"logLevel"`
	LogFile  string `yaml:"logFile"`
	TestMode bool   `yaml:"testMode"`
}

func defaults() *Config {
	return &Config{
		ListenAddr:        ":8080",
		DBPath:            "/data/plantcare.db",
		AIBackend:         AIGemini,
		GeminiBaseURL:     "https://generativelanguage.googleapis.com/v1beta",
		GeminiChatModel:   "gemini-2.5-pro",
		GeminiVisionModel: "gemini-1.5-flash",
		ClaudeModel:       "claude-3-5-sonnet-20241022",
		SessionBackend:    SessionSQLite,
		RedisAddr:         "localhost:6379",
		PhotoBackend:      PhotoLocal,
		PhotoPath:         "/data/photos",
		MinioEndpoint:     "localhost:9000",
		MinioBucket:       "plantcare-leaves",
		LogLevel:          "info",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// PLANTCARE_CONFIG if set, then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("PLANTCARE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.AIBackend = getEnv("AI_BACKEND", cfg.AIBackend)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiBaseURL = getEnv("GEMINI_BASE_URL", cfg.GeminiBaseURL)
	cfg.GeminiChatModel = getEnv("GEMINI_CHAT_MODEL", cfg.GeminiChatModel)
	cfg.GeminiVisionModel = getEnv("GEMINI_VISION_MODEL", cfg.GeminiVisionModel)
	cfg.ClaudeAPIKey = getEnv("CLAUDE_API_KEY", cfg.ClaudeAPIKey)
	cfg.ClaudeModel = getEnv("CLAUDE_MODEL", cfg.ClaudeModel)
	cfg.SessionBackend = getEnv("SESSION_BACKEND", cfg.SessionBackend)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.PhotoBackend = getEnv("PHOTO_BACKEND", cfg.PhotoBackend)
	cfg.PhotoPath = getEnv("PHOTO_LOCAL_PATH", cfg.PhotoPath)
	cfg.MinioEndpoint = getEnv("MINIO_ENDPOINT", cfg.MinioEndpoint)
	cfg.MinioAccessKey = getEnv("MINIO_ACCESS_KEY", cfg.MinioAccessKey)
	cfg.MinioSecretKey = getEnv("MINIO_SECRET_KEY", cfg.MinioSecretKey)
	cfg.MinioBucket = getEnv("MINIO_BUCKET", cfg.MinioBucket)
	cfg.MinioUseSSL = getBool("MINIO_USE_SSL", cfg.MinioUseSSL)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	cfg.TestMode = getBool("PLANTCARE_TEST_MODE", cfg.TestMode)

	if cfg.TestMode {
		cfg.AIBackend = AIStub
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.AIBackend {
	case AIGemini, AIClaude, AIStub:
	default:
		return fmt.Errorf("config: unknown AI_BACKEND %q", c.AIBackend)
	}
	switch c.SessionBackend {
	case SessionSQLite, SessionRedis:
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	switch c.PhotoBackend {
	case PhotoLocal, PhotoMinio:
	default:
		return fmt.Errorf("config: unknown PHOTO_BACKEND %q", c.PhotoBackend)
	}
	return nil
}

// Credential returns the environment-provided API key for the selected AI
// backend. An empty result means each browser scope must enter its own.
func (c *Config) Credential() string {
	switch c.AIBackend {
	case AIClaude:
		return c.ClaudeAPIKey
	case AIStub:
		if c.GeminiAPIKey != "" {
			return c.GeminiAPIKey
		}
		return stubCredential
	default:
		return c.GeminiAPIKey
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
