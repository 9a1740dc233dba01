package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ServerConfig holds the record-store server configuration
type ServerConfig struct {
	RunAddress  string // address and port the store listens on
	DatabaseURI string // postgres connection URI
	LogLevel    string // logging level

	VendorCodeHash string        // bcrypt hash of the vendor access code
	VendorTokenTTL time.Duration // vendor session token lifetime
	SessionSecret  string        // key used to sign vendor session tokens

	// Loyalty worker configuration
	WorkerPoolSize     int           // number of workers
	WorkerQueueSize    int           // order queue capacity
	WorkerScanInterval time.Duration // unawarded-order scan interval
	PointsDivisor      float64       // currency units per loyalty point

	// SMTP notification configuration; notifications are logged instead
	// of sent when the credentials are empty
	SMTPServer   string
	SMTPPort     int
	SMTPEmail    string
	SMTPPassword string
}

// LoadServer loads the server configuration from flags and environment
// variables. Environment variables take priority over flags.
func LoadServer() (*ServerConfig, error) {
	cfg := &ServerConfig{
		LogLevel:           "info",
		VendorTokenTTL:     12 * time.Hour,
		WorkerPoolSize:     3,
		WorkerQueueSize:    100,
		WorkerScanInterval: 10 * time.Second,
		PointsDivisor:      100,
		SMTPServer:         "smtp.gmail.com",
		SMTPPort:           587,
	}

	flag.StringVar(&cfg.RunAddress, "a", ":8080", "address and port to run server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.Parse()

	if env, ok := os.LookupEnv("RUN_ADDRESS"); ok {
		cfg.RunAddress = env
	}
	if env, ok := os.LookupEnv("DATABASE_URI"); ok {
		cfg.DatabaseURI = env
	}
	if env, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = env
	}

	// Vendor access secrets come from env only, never from flags.
	if env, ok := os.LookupEnv("VENDOR_CODE_HASH"); ok {
		cfg.VendorCodeHash = env
	}
	if env, ok := os.LookupEnv("SESSION_SECRET"); ok {
		cfg.SessionSecret = env
	}
	if env, ok := os.LookupEnv("VENDOR_TOKEN_TTL"); ok {
		if ttl, err := time.ParseDuration(env); err == nil && ttl > 0 {
			cfg.VendorTokenTTL = ttl
		}
	}

	if env, ok := os.LookupEnv("WORKER_POOL_SIZE"); ok {
		if size, err := strconv.Atoi(env); err == nil && size > 0 {
			cfg.WorkerPoolSize = size
		}
	}
	if env, ok := os.LookupEnv("WORKER_QUEUE_SIZE"); ok {
		if size, err := strconv.Atoi(env); err == nil && size > 0 {
			cfg.WorkerQueueSize = size
		}
	}
	if env, ok := os.LookupEnv("WORKER_SCAN_INTERVAL"); ok {
		if interval, err := time.ParseDuration(env); err == nil && interval > 0 {
			cfg.WorkerScanInterval = interval
		}
	}

	if env, ok := os.LookupEnv("SMTP_SERVER"); ok {
		cfg.SMTPServer = env
	}
	if env, ok := os.LookupEnv("SMTP_PORT"); ok {
		if port, err := strconv.Atoi(env); err == nil && port > 0 {
			cfg.SMTPPort = port
		}
	}
	if env, ok := os.LookupEnv("SMTP_EMAIL"); ok {
		cfg.SMTPEmail = env
	}
	if env, ok := os.LookupEnv("SMTP_PASSWORD"); ok {
		cfg.SMTPPassword = env
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI is required (use -d flag or DATABASE_URI env)")
	}
	if cfg.VendorCodeHash != "" && cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required when vendor access is enabled")
	}

	return cfg, nil
}

// SurfaceConfig holds the configuration of the terminal surface binaries
type SurfaceConfig struct {
	StoreAddress   string        // base URL of the record store
	LogLevel       string        // logging level
	PollInterval   time.Duration // order surface polling interval
	BannerInterval time.Duration // alert banner polling interval
	PatchTTL       time.Duration // optimistic patch expiry window
	CustomerID     string        // customer to track (customer surfaces only)
}

// LoadSurface loads a surface binary's configuration from flags and
// environment variables. Environment variables take priority over flags.
func LoadSurface() (*SurfaceConfig, error) {
	cfg := &SurfaceConfig{
		LogLevel:       "info",
		PollInterval:   5 * time.Second,
		BannerInterval: 3 * time.Second,
		PatchTTL:       20 * time.Second,
	}

	flag.StringVar(&cfg.StoreAddress, "s", "http://localhost:8080", "record store base URL")
	flag.StringVar(&cfg.CustomerID, "c", "", "customer id to track")
	flag.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "polling interval")
	flag.Parse()

	if env, ok := os.LookupEnv("STORE_ADDRESS"); ok {
		cfg.StoreAddress = env
	}
	if env, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = env
	}
	if env, ok := os.LookupEnv("CUSTOMER_ID"); ok {
		cfg.CustomerID = env
	}
	if env, ok := os.LookupEnv("POLL_INTERVAL"); ok {
		if interval, err := time.ParseDuration(env); err == nil && interval > 0 {
			cfg.PollInterval = interval
		}
	}
	if env, ok := os.LookupEnv("BANNER_INTERVAL"); ok {
		if interval, err := time.ParseDuration(env); err == nil && interval > 0 {
			cfg.BannerInterval = interval
		}
	}
	if env, ok := os.LookupEnv("PATCH_TTL"); ok {
		if ttl, err := time.ParseDuration(env); err == nil && ttl > 0 {
			cfg.PatchTTL = ttl
		}
	}

	if cfg.StoreAddress == "" {
		return nil, fmt.Errorf("store address is required (use -s flag or STORE_ADDRESS env)")
	}

	return cfg, nil
}
