package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("census loaded", "genera", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "census loaded", line["msg"])
	assert.EqualValues(t, 3, line["genera"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "text")

	logger.Debug("parsing row", "line", 12)

	assert.Contains(t, buf.String(), "msg=\"parsing row\"")
	assert.Contains(t, buf.String(), "line=12")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("chatty"))
}

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()

	m.RecordsParsed.Add(3)
	m.ViewRequests.WithLabelValues("svg", "height").Inc()

	assert.InDelta(t, 3.0, testutil.ToFloat64(m.RecordsParsed), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.ViewRequests.WithLabelValues("svg", "height")), 1e-9)
}
