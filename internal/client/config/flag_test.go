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
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{name: "address and interval", args: []string{"-a", "127.0.0.1:9090", "-i", "10"},
			expected: &Config{ServerEndpointAddr: "127.0.0.1:9090", OnlineCheckInterval: 10 * time.Second}},
		{name: "database path", args: []string{"-d", "/tmp/b.db"},
			expected: &Config{DatabasePath: "/tmp/b.db"}},
		{name: "unrelated flags ignored", args: []string{"-c", "conf.yaml", "-x", "-i", "2"},
			expected: &Config{OnlineCheckInterval: 2 * time.Second}},
		{name: "incorrect check interval", args: []string{"-a", "127.0.0.1:9090", "-i", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
