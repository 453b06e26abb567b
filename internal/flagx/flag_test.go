package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{"separate value", []string{"-c", "conf.yaml", "-a", "localhost"}, []string{"-c"}, []string{"-c", "conf.yaml"}},
		{"equals form", []string{"--config=alt.json", "-a", "x"}, []string{"--config"}, []string{"--config=alt.json"}},
		{"unknown ignored", []string{"-x", "1", "--y=2", "positional"}, []string{"-c"}, []string{}},
		{"flag at end without value", []string{"-c"}, []string{"-c"}, []string{"-c"}},
		{"next token is a flag", []string{"-c", "-notvalue"}, []string{"-c"}, []string{"-c"}},
		{"repeated flag keeps order", []string{"-c", "one", "-c", "two"}, []string{"-c"}, []string{"-c", "one", "-c", "two"}},
		{"empty", []string{}, []string{"-c"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		assert.Equal(t, "/etc/billsync.yaml", ConfigFileFlag([]string{"-c", "/etc/billsync.yaml"}))
	})
	t.Run("long", func(t *testing.T) {
		assert.Equal(t, "b.json", ConfigFileFlag([]string{"-a", "x", "-config", "b.json"}))
	})
	t.Run("absent", func(t *testing.T) {
		assert.Empty(t, ConfigFileFlag([]string{"-x", "1"}))
	})
	t.Run("last wins", func(t *testing.T) {
		assert.Equal(t, "2.json", ConfigFileFlag([]string{"-c", "1.json", "-config", "2.json"}))
	})
}
