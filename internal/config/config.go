package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	chat "ucoa-chat/internal/pkg/chat/application/domain"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverBadger   = "badger"
)

type Config struct {
	AppEnv   string `env:"APP_ENV"`
	LogLevel string `env:"LOG_LEVEL"`
	HTTPAddr string `env:"HTTP_ADDR"`

	StorageDriver string `env:"STORAGE_DRIVER"`
	DatabaseURL   string `env:"DATABASE_URL"`
	DBMaxConns    int    `env:"DB_MAX_CONNS"`
	BadgerPath    string `env:"BADGER_PATH"`

	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL"`

	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE"`

	JWTSecret string `env:"JWT_SECRET,required=true"`

	// Zero keeps the built-in limit for the chat type.
	SupportMaxParticipants      int `env:"SUPPORT_MAX_PARTICIPANTS"`
	HouseMaxParticipants        int `env:"HOUSE_MAX_PARTICIPANTS"`
	HouseComplexMaxParticipants int `env:"HOUSE_COMPLEX_MAX_PARTICIPANTS"`
	MarketMaxParticipants       int `env:"MARKET_MAX_PARTICIPANTS"`

	StaffOnlyKinds string `env:"STAFF_ONLY_CONTEXT_KINDS"`

	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT"`
	OutboxSize        int           `env:"OUTBOX_SIZE"`
	SinkTimeout       time.Duration `env:"SINK_TIMEOUT"`
	WorkerConcurrency int           `env:"WORKER_CONCURRENCY"`
	WorkerQueues      string        `env:"WORKER_QUEUES"`

	OTelEnabled     bool   `env:"OTEL_ENABLED"`
	OTelExporter    string `env:"OTEL_EXPORTER"`
	OTelServiceName string `env:"OTEL_SERVICE_NAME"`
	OTelEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads an optional .env file, then the process environment, then applies defaults.
// Variables already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.AppEnv == "" {
		c.AppEnv = "development"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	if c.StorageDriver == "" {
		c.StorageDriver = StorageDriverPostgres
	}
	if c.BadgerPath == "" {
		c.BadgerPath = "./data/badger"
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 10 * time.Minute
	}
	if c.AMQPExchange == "" {
		c.AMQPExchange = "ucoa.events"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 5 * time.Second
	}
	if c.OutboxSize <= 0 {
		c.OutboxSize = 256
	}
	if c.SinkTimeout <= 0 {
		c.SinkTimeout = 5 * time.Second
	}
	if c.WorkerConcurrency <= 0 {
		c.WorkerConcurrency = 10
	}
	if c.OTelExporter == "" {
		c.OTelExporter = "otlp"
	}
	if c.OTelServiceName == "" {
		c.OTelServiceName = "ucoa-chat"
	}
}

func (c Config) Validate() error {
	// Context entities and the user directory always live in Postgres; STORAGE_DRIVER
	// only selects where chats are stored.
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("config: DATABASE_URL is required")
	}
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverBadger:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	for name, v := range map[string]int{
		"SUPPORT_MAX_PARTICIPANTS":       c.SupportMaxParticipants,
		"HOUSE_MAX_PARTICIPANTS":         c.HouseMaxParticipants,
		"HOUSE_COMPLEX_MAX_PARTICIPANTS": c.HouseComplexMaxParticipants,
		"MARKET_MAX_PARTICIPANTS":        c.MarketMaxParticipants,
	} {
		if v < 0 {
			return fmt.Errorf("config: %s must not be negative, got %d", name, v)
		}
	}
	return nil
}

// Limits returns the participant limits explicitly configured; unset types keep their defaults.
func (c Config) Limits() map[chat.ChatType]int {
	out := make(map[chat.ChatType]int)
	set := func(t chat.ChatType, v int) {
		if v > 0 {
			out[t] = v
		}
	}
	set(chat.ChatTypeSupport, c.SupportMaxParticipants)
	set(chat.ChatTypeHouse, c.HouseMaxParticipants)
	set(chat.ChatTypeHouseComplex, c.HouseComplexMaxParticipants)
	set(chat.ChatTypeMarket, c.MarketMaxParticipants)
	return out
}

// StaffOnly parses STAFF_ONLY_CONTEXT_KINDS, a comma separated list of context kinds.
func (c Config) StaffOnly() []chat.ContextKind {
	var kinds []chat.ContextKind
	for _, part := range strings.Split(c.StaffOnlyKinds, ",") {
		if k := strings.TrimSpace(part); k != "" {
			kinds = append(kinds, chat.ContextKind(strings.ToLower(k)))
		}
	}
	return kinds
}

func (c Config) IsProduction() bool { return c.AppEnv == "production" }
