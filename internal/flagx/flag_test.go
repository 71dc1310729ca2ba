package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		valued   []string
		switches []string
		want     []string
	}{
		{
			name:   "short flag with separate value",
			args:   []string{"-c", "conf.json", "-a", "localhost"},
			valued: []string{"-c", "--config"},
			want:   []string{"-c", "conf.json"},
		},
		{
			name:   "long flag with equals",
			args:   []string{"--config=alt.json", "-a", "localhost"},
			valued: []string{"-c", "--config"},
			want:   []string{"--config=alt.json"},
		},
		{
			name:   "unknown flags ignored",
			args:   []string{"-x", "1", "--y=2", "positional"},
			valued: []string{"-c", "--config"},
			want:   []string{},
		},
		{
			name:   "value looking like a flag is not consumed",
			args:   []string{"-a", "-t", "5"},
			valued: []string{"-a", "-t"},
			want:   []string{"-a", "-t", "5"},
		},
		{
			name:     "switch does not swallow the next argument",
			args:     []string{"-v", "-a", "http://blog", "extra"},
			valued:   []string{"-a"},
			switches: []string{"-v"},
			want:     []string{"-v", "-a", "http://blog"},
		},
		{
			name:     "switch with explicit value",
			args:     []string{"-v=false", "-d", "x.db"},
			valued:   []string{"-d"},
			switches: []string{"-v"},
			want:     []string{"-v=false", "-d", "x.db"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.valued, tt.switches...)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Run("short -c with value", func(t *testing.T) {
		assert.Equal(t, "/path/short.json", ConfigPath([]string{"-c", "/path/short.json"}))
	})

	t.Run("long -config with value", func(t *testing.T) {
		assert.Equal(t, "/path/long.json", ConfigPath([]string{"-config", "/path/long.json"}))
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		assert.Empty(t, ConfigPath([]string{"-x", "1", "-y", "2"}))
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		assert.Equal(t, "/path/2.json", ConfigPath([]string{"-c", "/path/1.json", "-config", "/path/2.json"}))
	})
}
