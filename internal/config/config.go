package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	CacheBackendPostgres = "postgres"
	CacheBackendRedis    = "redis"
	CacheBackendNATS     = "nats"
	CacheBackendMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Catalog  CatalogConfig
	Worker   WorkerConfig
	TTS      TTSConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	LogLevel       string
	AllowedOrigins []string
	RateLimitRPS   float64 // per client; 0 (default) disables
	RateLimitBurst int
}

type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type NATSConfig struct {
	URL         string
	AudioBucket string
}

type AuthConfig struct {
	AdminJWTSecret string
}

type CacheConfig struct {
	Backend string // postgres, redis, nats or memory
}

type CatalogConfig struct {
	Path string // empty uses the built-in catalogue
}

type WorkerConfig struct {
	Concurrency int
}

// TTSConfig is the provider settings schema. It is parsed once at startup and
// handed to the adapters.
type TTSConfig struct {
	HTTPTimeout time.Duration `env:"TTS_HTTP_TIMEOUT" envDefault:"120s"`

	OpenAI     OpenAIConfig
	ElevenLabs ElevenLabsConfig
	Gemini     GeminiConfig
	Inworld    InworldConfig
	Google     GoogleConfig
}

type OpenAIConfig struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	BaseURL string `env:"OPENAI_BASE_URL"`
	Model   string `env:"OPENAI_TTS_MODEL" envDefault:"gpt-4o-mini-tts"`
	Voice   string `env:"OPENAI_TTS_VOICE" envDefault:"alloy"`
}

type ElevenLabsConfig struct {
	APIKey     string  `env:"ELEVENLABS_API_KEY"`
	BaseURL    string  `env:"ELEVENLABS_BASE_URL" envDefault:"https://api.elevenlabs.io"`
	Model      string  `env:"ELEVENLABS_MODEL_ID" envDefault:"eleven_multilingual_v2"`
	Voice      string  `env:"ELEVENLABS_VOICE_ID" envDefault:"21m00Tcm4TlvDq8ikWAM"`
	Stability  float64 `env:"ELEVENLABS_VOICE_STABILITY" envDefault:"0.4"`
	Similarity float64 `env:"ELEVENLABS_VOICE_SIMILARITY" envDefault:"0.75"`
}

type GeminiConfig struct {
	APIKey     string `env:"GEMINI_API_KEY"`
	BaseURL    string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	Model      string `env:"GEMINI_TTS_MODEL" envDefault:"gemini-2.5-flash-preview-tts"`
	Voice      string `env:"GEMINI_TTS_VOICE" envDefault:"Kore"`
	SampleRate int    `env:"GEMINI_TTS_SAMPLE_RATE" envDefault:"24000"`
}

// InworldConfig keeps the optional tuning values as strings so that an unset
// value can be told apart from zero. The adapter parses them at construction.
type InworldConfig struct {
	BasicAuth    string `env:"INWORLD_BASIC_AUTH"`
	BaseURL      string `env:"INWORLD_BASE_URL" envDefault:"https://api.inworld.ai"`
	Model        string `env:"INWORLD_TTS_MODEL" envDefault:"inworld-tts-1"`
	Voice        string `env:"INWORLD_TTS_VOICE" envDefault:"Dennis"`
	Encoding     string `env:"INWORLD_TTS_ENCODING" envDefault:"MP3"`
	SpeakingRate string `env:"INWORLD_TTS_SPEAKING_RATE"`
	SampleRate   string `env:"INWORLD_TTS_SAMPLE_RATE"`
	BitRate      string `env:"INWORLD_TTS_BIT_RATE"`
	Temperature  string `env:"INWORLD_TTS_TEMPERATURE"`
}

type GoogleConfig struct {
	APIKey          string  `env:"GOOGLE_TTS_API_KEY"`
	CredentialsFile string  `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	Endpoint        string  `env:"GOOGLE_TTS_ENDPOINT"`
	Language        string  `env:"GOOGLE_TTS_LANGUAGE" envDefault:"en-US"`
	Voice           string  `env:"GOOGLE_TTS_VOICE" envDefault:"en-US-Neural2-D"`
	Encoding        string  `env:"GOOGLE_TTS_ENCODING" envDefault:"MP3"`
	SpeakingRate    float64 `env:"GOOGLE_TTS_SPEAKING_RATE" envDefault:"1.0"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	rps, err := getEnvFloat("RATE_LIMIT_RPS", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	burst, err := getEnvInt("RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	concurrency, err := getEnvInt("WORKER_CONCURRENCY", 4)
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}

	tts, err := LoadTTS()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
			RateLimitRPS:   rps,
			RateLimitBurst: burst,
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: maxConns,
			MinConns: minConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		NATS: NATSConfig{
			URL:         getEnv("NATS_URL", "nats://localhost:4222"),
			AudioBucket: getEnv("NATS_AUDIO_BUCKET", "tts_audio"),
		},
		Auth: AuthConfig{
			AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		},
		Cache: CacheConfig{
			Backend: strings.ToLower(getEnv("AUDIO_CACHE_BACKEND", CacheBackendPostgres)),
		},
		Catalog: CatalogConfig{
			Path: getEnv("CATALOG_PATH", ""),
		},
		Worker: WorkerConfig{
			Concurrency: concurrency,
		},
		TTS: *tts,
	}

	return cfg, nil
}

// LoadTTS parses the provider settings from the environment.
func LoadTTS() (*TTSConfig, error) {
	var tts TTSConfig
	if err := env.Parse(&tts); err != nil {
		return nil, fmt.Errorf("parse tts config: %w", err)
	}
	tts.Inworld.Encoding = strings.ToUpper(strings.TrimSpace(tts.Inworld.Encoding))
	tts.Google.Encoding = strings.ToUpper(strings.TrimSpace(tts.Google.Encoding))
	return &tts, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks that the settings the process cannot start without are present.
func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	switch c.Cache.Backend {
	case CacheBackendPostgres, CacheBackendMemory:
	case CacheBackendRedis:
		if c.Redis.Addr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	case CacheBackendNATS:
		if c.NATS.URL == "" {
			missing = append(missing, "NATS_URL")
		}
	default:
		return fmt.Errorf("unknown AUDIO_CACHE_BACKEND %q", c.Cache.Backend)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Server.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
