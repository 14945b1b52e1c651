package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	brokerTokenENV    = "BROKER_TOKEN"
)

// Account is one broker account to reconcile.
type Account struct {
	ID       string `yaml:"id"`
	Exchange string `yaml:"exchange"`
	Token    string `yaml:"token"`
}

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB string `yaml:"db_dsn"`

	Broker struct {
		BaseURL string `yaml:"base_url"`
		Token   string `yaml:"token"`
	} `yaml:"broker"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	Accounts []Account `yaml:"accounts"`

	// How far back the first sync of an account reaches.
	SyncLookback time.Duration // .env: SYNC_LOOKBACK (e.g. 2160h)

	// Entry-time window for merging FIFO-split lots into one logical position.
	// Grouping by window is approximate on purpose; tune per broker.
	GroupWindow time.Duration // .env: GROUP_WINDOW (e.g. 24h)

	// Recovery status thresholds, percent of cost basis.
	RecoveringPct float64 `yaml:"recovering_pct"` // below => "at risk"
	FreePct       float64 `yaml:"free_pct"`       // at or above => "free"

	// Store limits
	DeleteChunkSize int `yaml:"delete_chunk_size"`

	// How many accounts reconcile concurrently.
	MaxParallelAccounts int
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		SyncLookback:    durationFromEnv("SYNC_LOOKBACK", "2160h"), // ~90 days
		GroupWindow:     durationFromEnv("GROUP_WINDOW", "24h"),
		RecoveringPct:   floatFromEnv("RECOVERING_PCT", 50),
		FreePct:         floatFromEnv("FREE_PCT", 100),
		DeleteChunkSize: intFromEnv("DELETE_CHUNK_SIZE", 200),

		MaxParallelAccounts: intFromEnv("MAX_PARALLEL_ACCOUNTS", 4),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	brokerToken := os.Getenv(brokerTokenENV)
	if brokerToken != "" {
		config.Broker.Token = brokerToken
	}

	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
