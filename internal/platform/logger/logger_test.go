// Package logger_test contains tests for the logger package
package logger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packlane/packlane-api/internal/config"
	"github.com/packlane/packlane-api/internal/platform/logger"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ServerConfig
		wantErr bool
	}{
		{"json info", config.ServerConfig{LogLevel: "info", LogFormat: "json"}, false},
		{"console debug", config.ServerConfig{LogLevel: "debug", LogFormat: "console"}, false},
		{"unknown level", config.ServerConfig{LogLevel: "loud", LogFormat: "json"}, true},
		{"unknown format", config.ServerConfig{LogLevel: "info", LogFormat: "xml"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, err := logger.Setup(tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
				assert.Nil(t, log)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, log)
			assert.Same(t, log, slog.Default())
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	base := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := logger.WithContext(context.Background(), base)

	assert.Same(t, base, logger.FromContext(ctx))
	assert.Same(t, base, logger.FromContextOrDefault(ctx, nil))
}

func TestFromContextOrDefault_Fallbacks(t *testing.T) {
	t.Parallel()

	assert.Nil(t, logger.FromContext(context.Background()))

	def := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, def, logger.FromContextOrDefault(context.Background(), def))
	assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))
}
