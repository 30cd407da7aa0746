package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/campus-tree-forest/internal/viz"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Census source: a local path or an http(s) URL.
	CSVSource    string
	FetchTimeout time.Duration

	// Visual encoding.
	ColorPolicy     viz.ColorPolicy
	IconMinSize     float64
	IconMaxSize     float64
	RenderCacheSize int

	// Optional aggregate publishing. Disabled when KafkaBrokers is empty.
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// KafkaEnabled reports whether aggregates should be published after load.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// VizOptions returns the visual encoding settings.
func (c *Config) VizOptions() viz.Options {
	return viz.Options{
		MinSize: c.IconMinSize,
		MaxSize: c.IconMaxSize,
		Color:   c.ColorPolicy,
	}
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("TREE_FETCH_TIMEOUT", "10s"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid TREE_FETCH_TIMEOUT")
	}

	colorPolicy, err := viz.ParseColorPolicy(sharedcfg.EnvOrDefault("COLOR_POLICY", string(viz.ColorBanded)))
	if err != nil {
		return nil, fmt.Errorf("invalid COLOR_POLICY: %w", err)
	}

	minSize, err := parsePositiveFloat("ICON_MIN_SIZE", viz.DefaultMinSize)
	if err != nil {
		return nil, err
	}
	maxSize, err := parsePositiveFloat("ICON_MAX_SIZE", viz.DefaultMaxSize)
	if err != nil {
		return nil, err
	}
	if minSize > maxSize {
		return nil, errors.New("ICON_MIN_SIZE must not exceed ICON_MAX_SIZE")
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CSVSource:    sharedcfg.EnvOrDefault("TREE_CSV_SOURCE", "data/Data_Viz_Challenge_2025-UCB_Trees.csv"),
		FetchTimeout: fetchTimeout,

		ColorPolicy:     colorPolicy,
		IconMinSize:     minSize,
		IconMaxSize:     maxSize,
		RenderCacheSize: parseRenderCacheSize(),

		KafkaBrokers:   brokers,
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "genus-aggregates"),
	}

	if cfg.CSVSource == "" {
		return nil, errors.New("TREE_CSV_SOURCE is required")
	}
	if cfg.KafkaEnabled() && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func parsePositiveFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseRenderCacheSize() int {
	if s := os.Getenv("RENDER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 256
}
