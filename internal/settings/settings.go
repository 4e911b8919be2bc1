package settings

import (
	"os"
	"path/filepath"
	"sync"

	"fleetdeck.dev/launcher/internal/configloader"
	"fleetdeck.dev/launcher/internal/folder"
	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// Settings keeps the web application settings file aligned with the launch
// configuration. The server flags passed on the command line always win, but
// writing them to the settings file too keeps the file and the running
// server from disagreeing after a manual start.
type Settings struct {
	appDir string
	values map[string]interface{}
	err    error
}

func NewSettings(configuration configloader.Config) (instance *Settings) {
	instance = &Settings{
		appDir: configuration.AppDir,
		values: map[string]interface{}{
			"server": map[string]interface{}{
				"address":  configuration.BindAddress,
				"port":     configuration.BindPort,
				"headless": configuration.Headless,
			},
			"browser": map[string]interface{}{
				"gatherUsageStats": configuration.GatherUsageStats,
			},
		},
	}
	return
}

func (settings *Settings) Initialize(waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()
	logrus.Debug("Syncing the application settings file")
	settings.err = settings.sync()
}

// Err returns the failure of the last sync, if any.
func (settings *Settings) Err() error {
	return settings.err
}

func (settings *Settings) sync() (err error) {
	settingsFilePath := folder.StreamlitConfigPath(settings.appDir)
	if _, err = os.Stat(settingsFilePath); !os.IsNotExist(err) {
		var settingsFileData []byte
		if settingsFileData, err = os.ReadFile(settingsFilePath); err != nil {
			return
		}
		savedSettingsMap := make(map[string]interface{})
		if err = toml.Unmarshal(settingsFileData, &savedSettingsMap); err != nil {
			return
		}
		settings.merge(savedSettingsMap)
	}

	if err = os.MkdirAll(filepath.Dir(settingsFilePath), 0755); err != nil {
		return
	}
	var file *os.File
	if file, err = os.OpenFile(settingsFilePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644); err != nil {
		return
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(settings.values)
}

// Saved values fill in around the managed ones: a whole section the launcher
// does not manage is kept as is, and inside a managed section only the keys
// the launcher does not set survive.
func (settings *Settings) merge(savedSettingsMap map[string]interface{}) {
	for sectionName, savedValue := range savedSettingsMap {
		managedSection, managed := settings.values[sectionName].(map[string]interface{})
		if !managed {
			if _, ok := settings.values[sectionName]; !ok {
				settings.values[sectionName] = savedValue
			}
			continue
		}
		savedSection, ok := savedValue.(map[string]interface{})
		if !ok {
			continue
		}
		for settingKey, settingValue := range savedSection {
			if _, ok := managedSection[settingKey]; !ok {
				managedSection[settingKey] = settingValue
			}
		}
	}
}
