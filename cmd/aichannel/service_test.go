package main

import (
	"path/filepath"
	"testing"

	"github.com/kardianos/service"
	"github.com/stretchr/testify/assert"

	"aichannel/pkg/config"
)

func TestServiceConfig_DefaultArguments(t *testing.T) {
	originalConfigPath := configPath
	t.Cleanup(func() { configPath = originalConfigPath })

	configPath = ""
	t.Setenv(config.ConfigPathEnv, "")

	cfg := ServiceConfig()
	assert.Equal(t, "aichannel", cfg.Name)
	assert.Equal(t, []string{"run"}, cfg.Arguments)
}

func TestServiceConfig_IncludesConfigFlag(t *testing.T) {
	originalConfigPath := configPath
	t.Cleanup(func() { configPath = originalConfigPath })

	configFile := filepath.Join(t.TempDir(), "service-config.yaml")
	configPath = configFile
	t.Setenv(config.ConfigPathEnv, "")

	assert.Equal(t, []string{"-c", configFile, "run"}, ServiceConfig().Arguments)
}

func TestServiceConfig_UsesConfigPathEnvWhenFlagNotProvided(t *testing.T) {
	originalConfigPath := configPath
	t.Cleanup(func() { configPath = originalConfigPath })

	configPath = ""
	configFile := filepath.Join(t.TempDir(), "env-config.yaml")
	t.Setenv(config.ConfigPathEnv, configFile)

	assert.Equal(t, []string{"-c", configFile, "run"}, ServiceConfig().Arguments)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Running", statusString(service.StatusRunning))
	assert.Equal(t, "Stopped", statusString(service.StatusStopped))
	assert.Equal(t, "Unknown", statusString(service.StatusUnknown))
}
