package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://127.0.0.1:9090", "-t", "10", "-d", "x.db", "-u", "s3", "-v"},
			expected: &Config{
				BaseURL:       "http://127.0.0.1:9090",
				Timeout:       10 * time.Second,
				DatabasePath:  "x.db",
				UploadBackend: "s3",
				Verbose:       true,
			},
		},
		{
			name:     "unrelated flags are ignored",
			args:     []string{"-c", "cfg.json", "-x", "1", "-a", "http://h"},
			expected: &Config{BaseURL: "http://h"},
		},
		{name: "incorrect timeout", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
