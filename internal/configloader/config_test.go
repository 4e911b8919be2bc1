package configloader_test

import (
	"testing"
	"time"

	"fleetdeck.dev/launcher/internal/configloader"
	"github.com/stretchr/testify/assert"
)

// Test default configuration loading
func TestLoadDefaultConfiguration(t *testing.T) {
	configuration, err := configloader.LoadConfiguration("unexistent", "")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "info", configuration.LogLevel)
	assert.Equal(t, ".", configuration.AppDir)
	assert.Equal(t, "app.py", configuration.EntryPoint)
	assert.Equal(t, "python", configuration.Interpreter)
	assert.Equal(t, "localhost", configuration.BindAddress)
	assert.Equal(t, 8501, configuration.BindPort)
	assert.True(t, configuration.Headless)
	assert.False(t, configuration.GatherUsageStats)
	assert.Equal(t, "bus_management.db", configuration.DatabaseFile)
	assert.False(t, configuration.PauseOnExit)
	assert.Equal(t, 30*time.Second, configuration.ReadyTimeout)
}

// Test environment variables configuration loading
func TestLoadEnvironmentVariablesConfiguration(t *testing.T) {
	t.Setenv("ENTRY_POINT", "dashboard.py")
	t.Setenv("BIND_ADDRESS", "0.0.0.0")
	t.Setenv("BIND_PORT", "8600")

	configuration, err := configloader.LoadConfiguration("unexistent", "")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "dashboard.py", configuration.EntryPoint)
	assert.Equal(t, "0.0.0.0", configuration.BindAddress)
	assert.Equal(t, 8600, configuration.BindPort)
}
