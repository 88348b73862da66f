package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenPort      string        // ex: ":4001"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	StoreBackend string // "file" (default) | "redis"
	DataFile     string // path to the stars.json collection file (file backend)
	StaticDir    string // built client assets to serve (empty = disabled)
	StrictSigns  bool   // true => reject sign values outside the zodiac set

	BackupDir      string        // snapshot directory (empty = backups disabled)
	BackupInterval time.Duration // interval between collection snapshots
	BackupKeep     int           // snapshots retained before pruning

	// Redis (only consulted when StoreBackend == "redis")
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
}

// fileConfig mirrors the optional YAML config file. Env vars always win
// over file values; the file wins over built-in defaults.
type fileConfig struct {
	ListenPort   string `yaml:"listen_port"`
	LogLevel     string `yaml:"log_level"`
	StoreBackend string `yaml:"store_backend"`
	DataFile     string `yaml:"data_file"`
	StaticDir    string `yaml:"static_dir"`
	BackupDir    string `yaml:"backup_dir"`
	Redis        struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

func Load() *Config {
	// Best effort: a local .env is a dev convenience, absence is normal.
	_ = godotenv.Load()

	fc := loadFile(os.Getenv("STARFIELD_CONFIG_FILE"))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("STARFIELD_LISTEN_PORT", firstNonEmpty(fc.ListenPort, ":4001")),
		ShutdownTimeout: mustDuration("STARFIELD_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("STARFIELD_LOG_LEVEL", firstNonEmpty(fc.LogLevel, "info")),
		PrettyLog: mustBool("STARFIELD_PRETTY_LOG", true),

		// Storage
		StoreBackend: getenv("STARFIELD_STORE_BACKEND", firstNonEmpty(fc.StoreBackend, "file")),
		DataFile:     getenv("STARFIELD_DATA_FILE", firstNonEmpty(fc.DataFile, "data/stars.json")),
		StaticDir:    getenv("STARFIELD_STATIC_DIR", fc.StaticDir),
		StrictSigns:  mustBool("STARFIELD_STRICT_SIGNS", false),

		// Backups
		BackupDir:      getenv("STARFIELD_BACKUP_DIR", fc.BackupDir),
		BackupInterval: mustDuration("STARFIELD_BACKUP_INTERVAL", 24*time.Hour),
		BackupKeep:     getenvInt("STARFIELD_BACKUP_KEEP", 14),

		// Redis settings
		RedisAddr:           getenv("STARFIELD_REDIS_ADDR", fc.Redis.Addr),
		RedisUser:           getenv("STARFIELD_REDIS_USERNAME", firstNonEmpty(fc.Redis.Username, "default")),
		RedisPassword:       getenv("STARFIELD_REDIS_PASSWORD", fc.Redis.Password),
		RedisDB:             getenvInt("STARFIELD_REDIS_DB", fc.Redis.DB),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
	}

	if cfg.StoreBackend != "file" && cfg.StoreBackend != "redis" {
		panic(fmt.Sprintf("❌ FATAL: STARFIELD_STORE_BACKEND must be \"file\" or \"redis\", got %q", cfg.StoreBackend))
	}
	if cfg.StoreBackend == "redis" && cfg.RedisAddr == "" {
		panic("❌ FATAL: STARFIELD_REDIS_ADDR is required when STARFIELD_STORE_BACKEND=redis")
	}

	return cfg
}

// loadFile parses the YAML config file at path. An empty path returns
// zero values; an unreadable or malformed file is fatal, since the
// operator explicitly asked for it.
func loadFile(path string) fileConfig {
	var fc fileConfig
	if path == "" {
		return fc
	}
	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Failed to read config file %s: %v", path, err))
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid YAML in config file %s: %v", path, err))
	}
	return fc
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
