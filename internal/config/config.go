package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/resumeforge/resumeforge/pkg/logger"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	OIDC      OIDCConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	MinIO     MinIOConfig
	Draft     DraftConfig
	Chat      ChatConfig
	Export    ExportConfig
	LogLevel  string
}

type ServerConfig struct {
	Port           string
	Host           string
	Environment    string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	GatewayTimeout time.Duration
}

// MongoDBConfig is optional; an empty URI disables Mongo-backed stores.
type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// PostgresConfig takes precedence over MongoDB for resume records when DSN
// is set.
type PostgresConfig struct {
	DSN     string
	Timeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

// OIDCConfig configures OAuth sign-in. Empty Issuer disables it.
type OIDCConfig struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type JWTConfig struct {
	Secret          string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
	Window  time.Duration
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	URLTTL    time.Duration
}

// DraftConfig selects where in-progress drafts live: "redis", "file" or
// "memory". IdleTTL only applies to the durable backends.
type DraftConfig struct {
	Backend string
	Dir     string
	IdleTTL time.Duration
}

type ChatConfig struct {
	Delay time.Duration
	Seed  int64
}

type ExportConfig struct {
	ChromePath string
	Timeout    time.Duration
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("GATEWAY_TIMEOUT_SECONDS", 10)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGODB_DATABASE", "resumeforge")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("POSTGRES_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("JWT_ISSUER", "resumeforge")
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", 15)
	v.SetDefault("JWT_REFRESH_TOKEN_TTL", 10080)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("MINIO_BUCKET", "resumeforge-exports")
	v.SetDefault("MINIO_URL_TTL_MINUTES", 15)
	v.SetDefault("DRAFT_DIR", "./data/drafts")
	v.SetDefault("DRAFT_IDLE_MINUTES", 30)
	v.SetDefault("CHAT_DELAY_MS", 600)
	v.SetDefault("EXPORT_TIMEOUT_SECONDS", 60)

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Host:           v.GetString("SERVER_HOST"),
			Environment:    v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   90 * time.Second,
			GatewayTimeout: time.Duration(v.GetInt("GATEWAY_TIMEOUT_SECONDS")) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Postgres: PostgresConfig{
			DSN:     v.GetString("POSTGRES_DSN"),
			Timeout: time.Duration(v.GetInt("POSTGRES_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		OIDC: OIDCConfig{
			Issuer:       strings.TrimRight(v.GetString("OIDC_ISSUER"), "/"),
			ClientID:     v.GetString("OIDC_CLIENT_ID"),
			ClientSecret: v.GetString("OIDC_CLIENT_SECRET"),
			RedirectURL:  v.GetString("OIDC_REDIRECT_URL"),
		},
		JWT: JWTConfig{
			Secret:          os.Getenv("JWT_SECRET"),
			Issuer:          v.GetString("JWT_ISSUER"),
			AccessTokenTTL:  time.Duration(v.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
			RefreshTokenTTL: time.Duration(v.GetInt("JWT_REFRESH_TOKEN_TTL")) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled: v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:     v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:   v.GetInt("RATE_LIMIT_BURST"),
			Window:  time.Duration(v.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			URLTTL:    time.Duration(v.GetInt("MINIO_URL_TTL_MINUTES")) * time.Minute,
		},
		Draft: DraftConfig{
			Backend: strings.ToLower(v.GetString("DRAFT_BACKEND")),
			Dir:     v.GetString("DRAFT_DIR"),
			IdleTTL: time.Duration(v.GetInt("DRAFT_IDLE_MINUTES")) * time.Minute,
		},
		Chat: ChatConfig{
			Delay: time.Duration(v.GetInt("CHAT_DELAY_MS")) * time.Millisecond,
			Seed:  v.GetInt64("CHAT_SEED"),
		},
		Export: ExportConfig{
			ChromePath: v.GetString("CHROME_PATH"),
			Timeout:    time.Duration(v.GetInt("EXPORT_TIMEOUT_SECONDS")) * time.Second,
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if cfg.Draft.Backend == "" {
		cfg.Draft.Backend = "memory"
		if cfg.Redis.Addr() != "" {
			cfg.Draft.Backend = "redis"
		}
	}

	if cfg.JWT.Secret == "" {
		logger.Warnf("JWT_SECRET is not set; set a secure value in production")
	}

	return cfg, nil
}

// RecordStore reports which backend holds resume records.
func (c *Config) RecordStore() string {
	switch {
	case c.Postgres.DSN != "":
		return "postgres"
	case c.MongoDB.URI != "":
		return "mongo"
	}
	return "memory"
}
