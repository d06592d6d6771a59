package infra

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		env, level string
		want       zerolog.Level
	}{
		{"production", "", zerolog.InfoLevel},
		{"development", "", zerolog.DebugLevel},
		{"production", "WARN", zerolog.WarnLevel},
		{"development", "error", zerolog.ErrorLevel},
		{"production", "chatty", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		if got := NewLogger(tc.env, tc.level).GetLevel(); got != tc.want {
			t.Fatalf("NewLogger(%q, %q) level = %v, want %v", tc.env, tc.level, got, tc.want)
		}
	}
}
