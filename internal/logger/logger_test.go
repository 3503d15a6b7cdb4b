package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "")

	cases := []struct {
		name string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.name)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestParseLevelEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "1")
	got, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, got)

	t.Setenv("LOG_LEVEL", "error")
	got, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.ErrorLevel, got)
}

func TestZerologAdapterFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.InfoLevel)

	log.Debug("Accumulator", "hidden", nil)
	assert.Zero(t, buf.Len())

	log.Error("Compensator", errors.New("boom"), map[string]interface{}{"path": "a.bmp"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Compensator", entry["component"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "a.bmp", entry["path"])
	assert.Equal(t, "error", entry["level"])
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New("xml", zerolog.InfoLevel)
	assert.Error(t, err)
}
