package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantInfo  bool
		wantError bool
	}{
		{level: "", wantInfo: true, wantError: true},
		{level: "debug", wantInfo: true, wantError: true},
		{level: "ERROR", wantInfo: false, wantError: true},
		{level: "off", wantInfo: false, wantError: false},
	}
	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			t.Setenv(EnvLogLevel, tt.level)

			var buf bytes.Buffer
			logger := NewLogger(&buf, "cleanse")

			logger.Info("info message")
			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info message")))
			logger.Error("error message")
			assert.Equal(t, tt.wantError, bytes.Contains(buf.Bytes(), []byte("error message")))
		})
	}
}

func TestNewLogger_SourceAttr(t *testing.T) {
	t.Setenv(EnvLogLevel, "info")

	var buf bytes.Buffer
	NewLogger(&buf, "cleanse").Info("processed", "bucket", "in")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "cleanse", entry["source"])
	assert.Equal(t, "processed", entry["msg"])
	assert.Equal(t, "in", entry["bucket"])
}
