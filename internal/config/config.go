package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const defaultJWTSecret = "default-secret-key-change-in-production"

type Config struct {
	HTTP    HTTPConfig
	Mongo   MongoConfig
	JWT     JWTConfig
	Media   MediaConfig
	Redis   RedisConfig
	Events  EventsConfig
	Listing ListingConfig
	Log     LogConfig
}

type HTTPConfig struct {
	Port            string        `env:"PORT" env-default:"5000"`
	ClientURL       string        `env:"CLIENT_URL" env-default:"http://localhost:5173"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
	MaxUploadMB     int64         `env:"MAX_UPLOAD_MB" env-default:"200"`
	AuthRateLimit   int           `env:"AUTH_RATE_LIMIT" env-default:"20"`
	AuthRateWindow  int           `env:"AUTH_RATE_WINDOW_SECONDS" env-default:"60"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DB" env-default:"rental"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET" env-default:"default-secret-key-change-in-production"`
	Expiry time.Duration `env:"JWT_EXPIRY" env-default:"168h"`
}

type MediaConfig struct {
	Backend        string        `env:"MEDIA_BACKEND" env-default:"s3"`
	Endpoint       string        `env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey      string        `env:"MINIO_ACCESS_KEY" env-default:"minioadmin"`
	SecretKey      string        `env:"MINIO_SECRET_KEY" env-default:"minioadmin"`
	Bucket         string        `env:"MINIO_BUCKET" env-default:"rental-media"`
	UseSSL         bool          `env:"MINIO_USE_SSL" env-default:"false"`
	PublicURL      string        `env:"MEDIA_PUBLIC_URL"`
	LocalPath      string        `env:"MEDIA_LOCAL_PATH" env-default:"./public/uploads"`
	CleanupTimeout time.Duration `env:"MEDIA_CLEANUP_TIMEOUT" env-default:"30s"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `env:"CACHE_TTL" env-default:"1h"`
}

type EventsConfig struct {
	Backend     string `env:"EVENTS_BACKEND" env-default:"none"`
	MQTTBroker  string `env:"MQTT_BROKER" env-default:"tcp://localhost:1883"`
	MQTTClient  string `env:"MQTT_CLIENT_ID" env-default:"rental-market"`
	NATSURL     string `env:"NATS_URL" env-default:"nats://localhost:4222"`
	TopicPrefix string `env:"EVENTS_TOPIC_PREFIX" env-default:"rental"`
}

type ListingConfig struct {
	PatchMode       string `env:"PATCH_MODE" env-default:"legacy"`
	EmptyAsNotFound bool   `env:"LISTING_EMPTY_AS_NOT_FOUND" env-default:"true"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, relying on environment variables")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.JWT.Secret == defaultJWTSecret {
		log.Warn("JWT_SECRET is set to its default insecure value")
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Media.Backend {
	case "s3", "local":
	default:
		return fmt.Errorf("MEDIA_BACKEND must be s3 or local, got %q", c.Media.Backend)
	}
	switch c.Events.Backend {
	case "none", "mqtt", "nats":
	default:
		return fmt.Errorf("EVENTS_BACKEND must be none, mqtt or nats, got %q", c.Events.Backend)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive")
	}
	return nil
}

// MaxUploadBytes is the multipart memory bound for one request.
func (c HTTPConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
