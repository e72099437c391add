package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	platformstrings "accountdesk/pkg/platform/strings"
)

// Store backends selectable with ACCOUNTDESK_STORE.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config is the full runtime configuration shared by the server and the CLI.
type Config struct {
	Server     Server
	Store      StoreConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Log        LogConfig
	Assignment AssignmentConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	AdminToken      string
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	// WriteTimeout must exceed the router's per-request timeout so handlers
	// can still write the 503 body.
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type StoreConfig struct {
	Backend       string
	PostgresURL   string
	MongoURI      string
	MongoDatabase string
	// NameCacheTTL controls the manager name lookup cache; zero disables it.
	NameCacheTTL time.Duration
}

// RedisConfig configures the shared assignment lock. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures ClientAssigned publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type LogConfig struct {
	Format string
	Level  string
}

type AssignmentConfig struct {
	// Lock serializes assignments per region and segment (Redis when configured,
	// in-process otherwise).
	Lock     bool
	LockWait time.Duration
	// Transactional runs the insert and roster update in one transaction
	// (postgres backend only).
	Transactional bool
}

// FromEnv loads an optional .env file, then reads ACCOUNTDESK_* variables.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return fromLookup(os.Getenv)
}

func fromLookup(get func(string) string) (Config, error) {
	r := reader{get: get}
	cfg := Config{
		Server: Server{
			Addr:            r.str("ACCOUNTDESK_ADDR", ":8080"),
			AdminToken:      r.str("ACCOUNTDESK_ADMIN_TOKEN", ""),
			ShutdownTimeout: r.duration("ACCOUNTDESK_SHUTDOWN_TIMEOUT", 10*time.Second),
			ReadTimeout:     r.duration("ACCOUNTDESK_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    r.duration("ACCOUNTDESK_WRITE_TIMEOUT", 35*time.Second),
			IdleTimeout:     r.duration("ACCOUNTDESK_IDLE_TIMEOUT", time.Minute),
		},
		Store: StoreConfig{
			Backend:       strings.ToLower(r.str("ACCOUNTDESK_STORE", StoreMemory)),
			PostgresURL:   r.str("ACCOUNTDESK_POSTGRES_URL", ""),
			MongoURI:      r.str("ACCOUNTDESK_MONGO_URI", ""),
			MongoDatabase: r.str("ACCOUNTDESK_MONGO_DATABASE", "accountdesk"),
			NameCacheTTL:  r.duration("ACCOUNTDESK_NAME_CACHE_TTL", time.Minute),
		},
		Redis: RedisConfig{
			URL:          r.str("ACCOUNTDESK_REDIS_URL", ""),
			PoolSize:     r.integer("ACCOUNTDESK_REDIS_POOL_SIZE", 10),
			MinIdleConns: r.integer("ACCOUNTDESK_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  r.duration("ACCOUNTDESK_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  r.duration("ACCOUNTDESK_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: r.duration("ACCOUNTDESK_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: r.list("ACCOUNTDESK_KAFKA_BROKERS"),
			Topic:   r.str("ACCOUNTDESK_KAFKA_TOPIC", "accountdesk.client-assigned"),
		},
		Log: LogConfig{
			Format: strings.ToLower(r.str("ACCOUNTDESK_LOG_FORMAT", "json")),
			Level:  strings.ToLower(r.str("ACCOUNTDESK_LOG_LEVEL", "info")),
		},
		Assignment: AssignmentConfig{
			Lock:          r.boolean("ACCOUNTDESK_ASSIGN_LOCK", false),
			LockWait:      r.duration("ACCOUNTDESK_ASSIGN_LOCK_WAIT", 3*time.Second),
			Transactional: r.boolean("ACCOUNTDESK_ASSIGN_TX", false),
		},
	}
	if len(r.errs) > 0 {
		return Config{}, errors.Join(r.errs...)
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory:
	case StorePostgres:
		if c.Store.PostgresURL == "" {
			return errors.New("ACCOUNTDESK_POSTGRES_URL is required for the postgres store")
		}
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errors.New("ACCOUNTDESK_MONGO_URI is required for the mongo store")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Assignment.Transactional && c.Store.Backend == StoreMemory {
		return errors.New("ACCOUNTDESK_ASSIGN_TX requires the postgres or mongo store")
	}
	return nil
}

type reader struct {
	get  func(string) string
	errs []error
}

func (r *reader) str(key, def string) string {
	if v := strings.TrimSpace(r.get(key)); v != "" {
		return v
	}
	return def
}

func (r *reader) list(key string) []string {
	return platformstrings.SplitList(r.get(key))
}

func (r *reader) integer(key string, def int) int {
	v := strings.TrimSpace(r.get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (r *reader) boolean(key string, def bool) bool {
	v := strings.TrimSpace(r.get(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(r.get(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}
