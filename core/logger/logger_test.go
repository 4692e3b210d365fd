package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		debug   bool
		info    bool
	}{
		{"Debug Console", Config{Level: "debug", Format: "console"}, false, true, true},
		{"Info JSON", Config{Level: "info", Format: "json"}, false, false, true},
		{"Warn", Config{Level: "warn", Format: "console"}, false, false, false},
		{"Default", Config{}, false, false, true},
		{"Invalid Level", Config{Level: "loud"}, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.debug, l.Core().Enabled(zapcore.DebugLevel))
			assert.Equal(t, tt.info, l.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func TestWithRun(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l, id := WithRun(zap.New(core))

	_, err := uuid.Parse(id)
	require.NoError(t, err)

	l.Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, id, logs.All()[0].ContextMap()["run_id"])
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		WithRayID(base, c).Info("no ray")
		c.Locals("ray_id", "abc")
		WithRayID(base, c).Info("with ray")
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.Equal(t, 2, logs.Len())
	assert.NotContains(t, logs.All()[0].ContextMap(), "ray_id")
	assert.Equal(t, "abc", logs.All()[1].ContextMap()["ray_id"])
}
