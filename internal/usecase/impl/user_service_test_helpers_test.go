package impl

import (
	"io"
	"log/slog"

	"taskapp/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(passwordMinLength int) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			PasswordMinLength: passwordMinLength,
		},
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
