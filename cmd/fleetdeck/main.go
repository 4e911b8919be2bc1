package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"fleetdeck.dev/launcher/internal/configloader"
	"fleetdeck.dev/launcher/internal/database"
	"fleetdeck.dev/launcher/internal/engine"
	"fleetdeck.dev/launcher/internal/launcher"
	"fleetdeck.dev/launcher/internal/preflight"
	"fleetdeck.dev/launcher/internal/prompt"
	"fleetdeck.dev/launcher/internal/settings"
	"github.com/sirupsen/logrus"
)

// Name of the current application. Used to load the configuration.
const APPLICATION_NAME = "fleetdeck"

type preparationHandler struct{}

func (handler *preparationHandler) NotifyPrepared() {
	logrus.Debug("Launch preparation completed")
}

func main() {
	os.Exit(run())
}

func run() int {
	// Parsing the command line argument to change settings file location
	configurationFilePath := flag.String("config", "", "Configuration file path")
	flag.Parse()
	// Loading application configuration
	configuration, err := configloader.LoadConfiguration(APPLICATION_NAME, *configurationFilePath)
	if err != nil {
		logrus.Errorf("%+v", err)
		return 1
	}
	level, err := logrus.ParseLevel(configuration.LogLevel)
	if err != nil {
		logrus.Errorf("%+v", err)
		return 1
	}

	// Set log level
	logrus.SetLevel(level)
	if *configurationFilePath != "" {
		logrus.Infof("Loaded config file %s", *configurationFilePath)
	}
	logrus.Infof("Setting log level to %s", level.String())

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		panic("Failed to read build information")
	}
	logrus.Debug("Launching fleetdeck v.", bi.Main.Version)

	return launch(configuration, os.Stdout, os.Stdin)
}

func launch(configuration configloader.Config, stdout io.Writer, stdin io.Reader) int {
	launcherEngine := launcher.NewLauncher(configuration)
	launcherEngine.StartedEventEmitter.Subscribe(func(pid int) {
		logrus.Infof("Server process started with pid %d", pid)
	})
	launcherEngine.ReadyEventEmitter.Subscribe(func(address string) {
		logrus.Infof("Server listening at %s", address)
	})
	launcherEngine.ExitedEventEmitter.Subscribe(func(exitCode int) {
		logrus.Infof("Server process exited with code %d", exitCode)
	})

	launcherEngine.Banner(stdout)

	// The preparation engines are independent, run them concurrently.
	preflightEngine := preflight.NewPreflight(configuration)
	settingsEngine := settings.NewSettings(configuration)
	databaseEngine := database.NewInspector(filepath.Join(configuration.AppDir, configuration.DatabaseFile))
	controller := engine.NewController([]engine.ApplicationEngine{
		preflightEngine,
		settingsEngine,
		databaseEngine,
	}, &preparationHandler{})
	controller.Initialize()

	// A failed precondition is fatal before the spawn is attempted. The
	// settings sync and the database inspection only advise: the command
	// line flags carry the configuration anyway, and the application owns
	// its own schema.
	if failures := preflightEngine.Failures(); len(failures) > 0 {
		logrus.Errorf("Aborting the launch, %d preconditions failed", len(failures))
		return finish(configuration, 1, stdout, stdin)
	}
	if err := settingsEngine.Err(); err != nil {
		logrus.Warn("Cannot sync the application settings file")
		logrus.Warnf("%+v", err)
	}
	if err := databaseEngine.Err(); err != nil {
		logrus.Warn("Continuing the launch without the database inspection")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exitCode, err := launcherEngine.Run(ctx)
	if err != nil {
		logrus.Error("Cannot run the server process")
		logrus.Errorf("%+v", err)
		exitCode = 1
	}

	return finish(configuration, exitCode, stdout, stdin)
}

// The keypress wait covers every outcome, a failed launch included: the
// pause exists to keep the console readable after an error.
func finish(configuration configloader.Config, exitCode int, stdout io.Writer, stdin io.Reader) int {
	if configuration.PauseOnExit {
		if err := prompt.AwaitKeypress(stdout, stdin); err != nil {
			logrus.Warnf("%+v", err)
		}
	}
	return exitCode
}
