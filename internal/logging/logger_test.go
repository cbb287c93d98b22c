package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelWarn,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelWarn,
	}
	for input, want := range tests {
		assert.Equal(t, want, parseLevel(input), "input %q", input)
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("drops time and filters by level", func(t *testing.T) {
		var out bytes.Buffer
		log := newLogger(&config.RuntimeConfig{}, "info", &out)

		log.Debug("hidden")
		log.Info("connected", "chainId", 1)

		assert.Equal(t, "level=INFO msg=connected chainId=1\n", out.String())
	})

	t.Run("debug flag enables debug with source", func(t *testing.T) {
		var out bytes.Buffer
		log := newLogger(&config.RuntimeConfig{Debug: true}, "error", &out)

		log.Debug("details")

		assert.Contains(t, out.String(), "level=DEBUG")
		assert.Contains(t, out.String(), "source=")
		assert.Contains(t, out.String(), "logger_test.go")
	})
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/handle.go", shortPath("/home/dev/treb-create2/internal/usecase/handle.go"))
	assert.Equal(t, "main.go", shortPath("/tmp/build/main.go"))
}
