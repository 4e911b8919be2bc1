package settings_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"fleetdeck.dev/launcher/internal/configloader"
	"fleetdeck.dev/launcher/internal/folder"
	"fleetdeck.dev/launcher/internal/settings"
	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
)

func syncSettings(t *testing.T, configuration configloader.Config) map[string]interface{} {
	instance := settings.NewSettings(configuration)
	waitGroup := sync.WaitGroup{}
	waitGroup.Add(1)
	instance.Initialize(&waitGroup)
	waitGroup.Wait()
	if err := instance.Err(); err != nil {
		t.Fatal(err)
	}

	settingsFileData, err := os.ReadFile(folder.StreamlitConfigPath(configuration.AppDir))
	if err != nil {
		t.Fatal(err)
	}
	savedSettingsMap := make(map[string]interface{})
	if err = toml.Unmarshal(settingsFileData, &savedSettingsMap); err != nil {
		t.Fatal(err)
	}
	return savedSettingsMap
}

func TestSyncCreatesSettingsFile(t *testing.T) {
	configuration := configloader.Config{
		AppDir:      t.TempDir(),
		BindAddress: "localhost",
		BindPort:    8501,
		Headless:    true,
	}

	savedSettingsMap := syncSettings(t, configuration)

	serverSection := savedSettingsMap["server"].(map[string]interface{})
	assert.Equal(t, "localhost", serverSection["address"])
	assert.Equal(t, int64(8501), serverSection["port"])
	assert.Equal(t, true, serverSection["headless"])
	browserSection := savedSettingsMap["browser"].(map[string]interface{})
	assert.Equal(t, false, browserSection["gatherUsageStats"])
}

func TestSyncPreservesUnmanagedSettings(t *testing.T) {
	configuration := configloader.Config{
		AppDir:      t.TempDir(),
		BindAddress: "192.168.1.30",
		BindPort:    8600,
	}

	settingsFilePath := folder.StreamlitConfigPath(configuration.AppDir)
	if err := os.MkdirAll(filepath.Dir(settingsFilePath), 0755); err != nil {
		t.Fatal(err)
	}
	savedSettings := "[server]\naddress = \"10.0.0.1\"\nrunOnSave = true\n\n[theme]\nbase = \"dark\"\n"
	if err := os.WriteFile(settingsFilePath, []byte(savedSettings), 0644); err != nil {
		t.Fatal(err)
	}

	savedSettingsMap := syncSettings(t, configuration)

	serverSection := savedSettingsMap["server"].(map[string]interface{})
	// The managed address wins over the saved one, the unmanaged key
	// survives.
	assert.Equal(t, "192.168.1.30", serverSection["address"])
	assert.Equal(t, int64(8600), serverSection["port"])
	assert.Equal(t, true, serverSection["runOnSave"])
	themeSection := savedSettingsMap["theme"].(map[string]interface{})
	assert.Equal(t, "dark", themeSection["base"])
}
