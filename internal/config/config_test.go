package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("AGENT_MAX_ROUNDS", "")

	cfg := Load()
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, DefaultAgentMaxRounds, cfg.AgentMaxRounds)
	assert.Equal(t, 60*time.Second, cfg.AITimeout)
	assert.True(t, cfg.Debug)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("AGENT_MAX_ROUNDS", "3")
	t.Setenv("AI_TIMEOUT", "15s")

	cfg := Load()
	assert.Equal(t, "", cfg.TablePrefix, "an explicitly empty TABLE_PREFIX is honored")
	assert.Equal(t, 3, cfg.AgentMaxRounds)
	assert.Equal(t, 15*time.Second, cfg.AITimeout)
	assert.False(t, cfg.Debug)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := Load()
		cfg.AIAPIKey = "sk-test"
		cfg.MemoryMaxTurns = 20
		cfg.MemoryNoteMaxTurns = 10
		cfg.SessionMode = SessionModeSingle
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.AIAPIKey = "" }},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "oracle" }},
		{"zero rounds", func(c *Config) { c.AgentMaxRounds = 0 }},
		{"memory too small", func(c *Config) { c.MemoryMaxTurns = 2; c.MemoryNoteMaxTurns = 2 }},
		{"note window larger than memory", func(c *Config) { c.MemoryNoteMaxTurns = 30 }},
		{"unknown session mode", func(c *Config) { c.SessionMode = "shared" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSetupLogFile_KeepsNewestFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"staffdesk-2026-01-01T00-00-00.log",
		"staffdesk-2026-01-02T00-00-00.log",
		"staffdesk-2026-01-03T00-00-00.log",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	f, err := SetupLogFile(dir, 2)
	require.NoError(t, err)
	defer f.Close()

	files, err := filepath.Glob(filepath.Join(dir, "staffdesk-*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, files, f.Name())
	assert.NotContains(t, files, filepath.Join(dir, "staffdesk-2026-01-01T00-00-00.log"))
}
