package config

import (
	"testing"
	"time"

	"github.com/couchcryptid/campus-tree-forest/internal/viz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSVURL = "https://example.org/Data_Viz_Challenge_2025-UCB_Trees.csv"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data/Data_Viz_Challenge_2025-UCB_Trees.csv", cfg.CSVSource)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, viz.ColorBanded, cfg.ColorPolicy)
	assert.Equal(t, 16.0, cfg.IconMinSize)
	assert.Equal(t, 64.0, cfg.IconMaxSize)
	assert.Equal(t, 256, cfg.RenderCacheSize)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "genus-aggregates", cfg.KafkaSinkTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("TREE_CSV_SOURCE", testCSVURL)
	t.Setenv("TREE_FETCH_TIMEOUT", "3s")
	t.Setenv("COLOR_POLICY", "continuous")
	t.Setenv("ICON_MIN_SIZE", "8")
	t.Setenv("ICON_MAX_SIZE", "96")
	t.Setenv("RENDER_CACHE_SIZE", "32")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, testCSVURL, cfg.CSVSource)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, viz.ColorContinuous, cfg.ColorPolicy)
	assert.Equal(t, 8.0, cfg.IconMinSize)
	assert.Equal(t, 96.0, cfg.IconMaxSize)
	assert.Equal(t, 32, cfg.RenderCacheSize)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)

	opts := cfg.VizOptions()
	assert.Equal(t, viz.Options{MinSize: 8, MaxSize: 96, Color: viz.ColorContinuous}, opts)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidFetchTimeout(t *testing.T) {
	t.Setenv("TREE_FETCH_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TREE_FETCH_TIMEOUT")
}

func TestLoad_NegativeFetchTimeout(t *testing.T) {
	t.Setenv("TREE_FETCH_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TREE_FETCH_TIMEOUT")
}

func TestLoad_InvalidColorPolicy(t *testing.T) {
	t.Setenv("COLOR_POLICY", "rainbow")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COLOR_POLICY")
}

func TestLoad_InvalidIconSize(t *testing.T) {
	t.Setenv("ICON_MAX_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ICON_MAX_SIZE")
}

func TestLoad_IconSizesInverted(t *testing.T) {
	t.Setenv("ICON_MIN_SIZE", "80")
	t.Setenv("ICON_MAX_SIZE", "40")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ICON_MIN_SIZE")
}

func TestLoad_InvalidRenderCacheSizeFallsBack(t *testing.T) {
	t.Setenv("RENDER_CACHE_SIZE", "-5")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.RenderCacheSize)
}
