package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"strconv"
	"time"

	"fleetdeck.dev/launcher/internal/configloader"
	"fleetdeck.dev/launcher/pkg/eventemitter"
)

// Launcher spawns the interpreter running the web application server and
// blocks until it exits. The child inherits the launcher's standard
// streams, so every diagnostic the interpreter or the application prints
// reaches the console untouched.
type Launcher struct {
	appDir           string
	interpreter      string
	entryPoint       string
	bindAddress      string
	bindPort         int
	headless         bool
	gatherUsageStats bool
	readyTimeout     time.Duration

	// Event emitters
	StartedEventEmitter *eventemitter.EventEmitter[int]
	ReadyEventEmitter   *eventemitter.EventEmitter[string]
	ExitedEventEmitter  *eventemitter.EventEmitter[int]
}

func NewLauncher(configuration configloader.Config) (instance *Launcher) {
	instance = &Launcher{
		appDir:              configuration.AppDir,
		interpreter:         configuration.Interpreter,
		entryPoint:          configuration.EntryPoint,
		bindAddress:         configuration.BindAddress,
		bindPort:            configuration.BindPort,
		headless:            configuration.Headless,
		gatherUsageStats:    configuration.GatherUsageStats,
		readyTimeout:        configuration.ReadyTimeout,
		StartedEventEmitter: eventemitter.NewEventEmitter[int](),
		ReadyEventEmitter:   eventemitter.NewEventEmitter[string](),
		ExitedEventEmitter:  eventemitter.NewEventEmitter[int](),
	}
	return
}

// ServerAddress returns the host:port pair the server listens on.
func (launcher *Launcher) ServerAddress() string {
	return net.JoinHostPort(launcher.bindAddress, strconv.Itoa(launcher.bindPort))
}

// Arguments returns the argument vector passed to the interpreter: a
// module-run of the web framework over the entry point, with the server
// bind options.
func (launcher *Launcher) Arguments() []string {
	return []string{
		"-m", "streamlit", "run", launcher.entryPoint,
		"--server.address=" + launcher.bindAddress,
		"--server.port=" + strconv.Itoa(launcher.bindPort),
		"--server.headless=" + strconv.FormatBool(launcher.headless),
		"--browser.gatherUsageStats=" + strconv.FormatBool(launcher.gatherUsageStats),
	}
}

// Banner writes the user-facing startup lines.
func (launcher *Launcher) Banner(writer io.Writer) {
	fmt.Fprintln(writer, "============================================")
	fmt.Fprintln(writer, " Bus Fleet Management System")
	fmt.Fprintln(writer, "============================================")
	fmt.Fprintf(writer, " Serving at http://%s\n", launcher.ServerAddress())
	fmt.Fprintln(writer, " Press Ctrl+C to stop the server.")
	fmt.Fprintln(writer)
}

// Run spawns the server process and waits for it to exit. The returned exit
// code is the child's own; a nonzero child exit is reported through the
// code, not the error. Cancelling the context terminates the child.
func (launcher *Launcher) Run(ctx context.Context) (exitCode int, err error) {
	command := exec.CommandContext(ctx, launcher.interpreter, launcher.Arguments()...)
	command.Dir = launcher.appDir
	command.Stdin = os.Stdin
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr

	if err = command.Start(); err != nil {
		return 1, err
	}
	go launcher.StartedEventEmitter.Emit(command.Process.Pid)

	probeCtx, stopProbe := context.WithCancel(ctx)
	defer stopProbe()
	go func() {
		if launcher.WaitUntilReady(probeCtx) {
			launcher.ReadyEventEmitter.Emit(launcher.ServerAddress())
		}
	}()

	err = command.Wait()
	exitCode = command.ProcessState.ExitCode()
	if exitCode < 0 {
		// Terminated by a signal, as on a forwarded interrupt.
		exitCode = 1
	}
	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		err = nil
	}
	// The process is about to exit, the event must be delivered before Run
	// returns.
	launcher.ExitedEventEmitter.Emit(exitCode)
	launcher.ExitedEventEmitter.Flush()
	return
}

// WaitUntilReady dials the server address until a connection is accepted,
// the timeout elapses or the context is cancelled. It reports whether the
// listener came up.
func (launcher *Launcher) WaitUntilReady(ctx context.Context) bool {
	deadline := time.Now().Add(launcher.readyTimeout)
	for time.Now().Before(deadline) {
		connection, err := net.DialTimeout("tcp", launcher.ServerAddress(), time.Second)
		if err == nil {
			connection.Close()
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(500 * time.Millisecond):
		}
	}
	return false
}
