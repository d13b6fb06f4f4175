package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := ComponentLogger(NewLogger(&buf, Config{Level: "info", Format: FormatJSON}), "engine")

	l.Debug().Msg("hidden")
	l.Info().Str("product", "p1").Msg("computed")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "engine", rec["component"])
	assert.Equal(t, "p1", rec["product"])
	assert.Equal(t, "computed", rec["message"])
}

func TestNewLoggerWithPath(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pcfcalc.log")
		res := NewLoggerWithPath(Config{Level: "info", Output: OutputFile, File: path})
		require.True(t, res.UsingFile)
		res.Logger.Info().Msg("hello")
		require.NoError(t, res.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"message":"hello"`)
	})

	t.Run("fallback", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing-dir", "pcfcalc.log")
		res := NewLoggerWithPath(Config{Output: OutputFile, File: path})
		assert.False(t, res.UsingFile)
		assert.True(t, res.FallbackUsed)
		assert.NotEmpty(t, res.FallbackReason)
		assert.NoError(t, res.Close())
	})
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, TraceIDFromContext(ctx))

	id := GetOrGenerateTraceID(ctx)
	_, err := ulid.Parse(id)
	require.NoError(t, err)

	ctx = ContextWithTraceID(ctx, id)
	assert.Equal(t, id, GetOrGenerateTraceID(ctx))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, Config{Level: "debug", Format: FormatJSON})
	ctx := l.WithContext(context.Background())

	FromContext(ctx).Debug().Msg("via context")
	assert.Contains(t, buf.String(), "via context")

	// A context without a logger yields a disabled logger rather than nil.
	assert.NotNil(t, FromContext(context.Background()))
}
