package configloader

import (
	"path/filepath"
	"time"

	"fleetdeck.dev/launcher/internal/folder"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Structure to bind application parameters
type Config struct {
	LogLevel         string        `mapstructure:"LOG_LEVEL"`          // logrus library log level to be assigned
	AppDir           string        `mapstructure:"APP_DIR"`            // web application directory, used as the server working directory
	EntryPoint       string        `mapstructure:"ENTRY_POINT"`        // web application entry file inside AppDir
	Interpreter      string        `mapstructure:"INTERPRETER"`        // interpreter executable resolved on the search path
	BindAddress      string        `mapstructure:"BIND_ADDRESS"`       // network address the server listens on
	BindPort         int           `mapstructure:"BIND_PORT"`          // TCP port the server listens on
	Headless         bool          `mapstructure:"HEADLESS"`           // run the server without opening a browser
	GatherUsageStats bool          `mapstructure:"GATHER_USAGE_STATS"` // web framework usage statistics opt-in
	DatabaseFile     string        `mapstructure:"DATABASE_FILE"`      // application SQLite file inside AppDir
	PauseOnExit      bool          `mapstructure:"PAUSE_ON_EXIT"`      // wait for a keypress after the server exits
	ReadyTimeout     time.Duration `mapstructure:"READY_TIMEOUT"`      // how long the readiness probe keeps dialing
}

// Initialize default parameters values
func initDefaultConfiguration() {
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("APP_DIR", ".")
	viper.SetDefault("ENTRY_POINT", "app.py")
	viper.SetDefault("INTERPRETER", "python")
	viper.SetDefault("BIND_ADDRESS", "localhost")
	viper.SetDefault("BIND_PORT", 8501)
	viper.SetDefault("HEADLESS", true)
	viper.SetDefault("GATHER_USAGE_STATS", false)
	viper.SetDefault("DATABASE_FILE", folder.DATABASE_FILE)
	viper.SetDefault("PAUSE_ON_EXIT", false)
	viper.SetDefault("READY_TIMEOUT", "30s")
}

// Load configuration from env file
func LoadConfiguration(applicationName string, configurationFilePath string) (config Config, err error) {
	initDefaultConfiguration()

	if configurationFilePath == "" {
		// Read the volume root path
		root := filepath.VolumeName(".")
		if root == "" {
			root = string(filepath.Separator)
		}

		// Set configuration named config from etc/*appName*, $HOME/.*appName* or current folders
		viper.AddConfigPath(filepath.Join(root, "etc", applicationName))
		viper.AddConfigPath(filepath.Join("$HOME", "."+applicationName))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	} else {
		// Set the configuration file path
		viper.SetConfigFile(configurationFilePath)
	}

	// Get configuration from environment variables, if set
	viper.AutomaticEnv()

	// Get configuration from configuration file, if set
	if configError := viper.ReadInConfig(); configError != nil {
		logrus.Warn(configError.Error())
	}
	err = viper.Unmarshal(&config)

	return
}
