package preflight

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"fleetdeck.dev/launcher/internal/configloader"
	"github.com/sirupsen/logrus"
)

// Launch precondition failures. Each failed check wraps one of these, so
// callers can classify them with errors.Is.
var (
	ErrWorkingDirectoryNotFound = errors.New("working directory not found")
	ErrInterpreterNotFound      = errors.New("interpreter not found")
	ErrEntryPointNotFound       = errors.New("entry point not found")
	ErrPortUnavailable          = errors.New("port unavailable")
)

// Preflight verifies the launch preconditions: the application directory
// exists, the interpreter resolves, the entry point file is present and the
// bind port can be opened. The checks are independent, so every failure is
// collected instead of stopping at the first one.
type Preflight struct {
	appDir      string
	interpreter string
	entryPoint  string
	bindAddress string
	bindPort    int

	failures []error
}

func NewPreflight(configuration configloader.Config) (instance *Preflight) {
	instance = &Preflight{
		appDir:      configuration.AppDir,
		interpreter: configuration.Interpreter,
		entryPoint:  configuration.EntryPoint,
		bindAddress: configuration.BindAddress,
		bindPort:    configuration.BindPort,
	}
	return
}

func (preflight *Preflight) Initialize(waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()
	logrus.Debug("Checking launch preconditions")
	preflight.checkWorkingDirectory()
	preflight.checkInterpreter()
	preflight.checkEntryPoint()
	preflight.checkPort()
}

// Failures returns the precondition failures collected by Initialize.
func (preflight *Preflight) Failures() []error {
	return preflight.failures
}

func (preflight *Preflight) checkWorkingDirectory() {
	fileInfo, err := os.Stat(preflight.appDir)
	if err != nil || !fileInfo.IsDir() {
		preflight.fail(fmt.Errorf("%w: %s", ErrWorkingDirectoryNotFound, preflight.appDir))
		return
	}
	logrus.Debugf("Working directory %s found", preflight.appDir)
}

func (preflight *Preflight) checkInterpreter() {
	interpreterPath, err := exec.LookPath(preflight.interpreter)
	if err != nil {
		preflight.fail(fmt.Errorf("%w: %s", ErrInterpreterNotFound, preflight.interpreter))
		return
	}
	logrus.Debugf("Interpreter resolved to %s", interpreterPath)
}

func (preflight *Preflight) checkEntryPoint() {
	entryPointPath := filepath.Join(preflight.appDir, preflight.entryPoint)
	fileInfo, err := os.Stat(entryPointPath)
	if err != nil || fileInfo.IsDir() {
		preflight.fail(fmt.Errorf("%w: %s", ErrEntryPointNotFound, entryPointPath))
		return
	}
	logrus.Debugf("Entry point %s found", entryPointPath)
}

func (preflight *Preflight) checkPort() {
	address := net.JoinHostPort(preflight.bindAddress, strconv.Itoa(preflight.bindPort))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		preflight.fail(fmt.Errorf("%w: %s", ErrPortUnavailable, address))
		return
	}
	listener.Close()
	logrus.Debugf("Bind address %s available", address)
}

func (preflight *Preflight) fail(failure error) {
	logrus.Error("Launch precondition failed")
	logrus.Errorf("%+v", failure)
	preflight.failures = append(preflight.failures, failure)
}
