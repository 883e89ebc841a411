package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "prod", "info")

	logger.Debug("hidden")
	logger.Info("cart item saved", "item_id", "c1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "cart item saved", entry["msg"])
	assert.Equal(t, "c1", entry["item_id"])
	assert.Equal(t, "seshop-api", entry["service"])
	assert.NotEmpty(t, entry["time"])
}

func TestNewLogger_DevWritesText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "dev", "debug")

	logger.Debug("starting")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "msg=starting")
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantInfo  bool
		wantWarn  bool
		wantError bool
	}{
		{"debug", true, true, true},
		{"info", true, true, true},
		{"warn", false, true, true},
		{"error", false, false, true},
		{"bogus", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, "dev", tt.level)

			logger.Info("i")
			assert.Equal(t, tt.wantInfo, strings.Contains(buf.String(), "msg=i"))
			logger.Warn("w")
			assert.Equal(t, tt.wantWarn, strings.Contains(buf.String(), "msg=w"))
			logger.Error("e")
			assert.Equal(t, tt.wantError, strings.Contains(buf.String(), "msg=e"))
		})
	}
}
