// Package launcher starts the bundled lint-mcp server as a child process,
// bridges the standard streams, forwards termination signals and reports
// how the child ended.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
)

// ForwardedSignals are relayed from the launcher to the running server.
var ForwardedSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Launcher supervises exactly one server process per Run. A Launcher
// literal is usable: zero fields get the same defaults New sets.
type Launcher struct {
	Path string
	// Env is passed to the child as is. Nil means os.Environ().
	Env []string
	// Nil streams mean the launcher's own stdin, stdout and stderr.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Signals relayed to the child. Empty means ForwardedSignals, never
	// every signal.
	Signals []os.Signal
	logger  *slog.Logger

	notify func(c chan<- os.Signal, sig ...os.Signal)
	stop   func(c chan<- os.Signal)
	start  func(cmd *exec.Cmd) error
}

// New returns a launcher for the binary at path wired to the process's own
// standard streams.
func New(path string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Launcher{
		Path:    path,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Signals: ForwardedSignals,
		logger:  logger,
		notify:  signal.Notify,
		stop:    signal.Stop,
		start:   (*exec.Cmd).Start,
	}
}

// StartServer resolves the default binary path and runs it until it exits.
func StartServer(ctx context.Context) error {
	path, err := BinaryPath()
	if err != nil {
		return err
	}
	return New(path, nil).Run(ctx)
}

// Run spawns the server and blocks until it terminates. Signals received
// by the launcher while the server runs are forwarded, and cancelling ctx
// forwards SIGTERM once. Neither ends Run by itself: only the child's exit
// (or a failure to start it) does.
func (l *Launcher) Run(ctx context.Context) error {
	l = l.withDefaults()
	if _, err := os.Stat(l.Path); err != nil {
		return &NotFoundError{Path: l.Path, Err: err}
	}

	cmd := exec.Command(l.Path)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	cmd.Env = l.Env
	if cmd.Env == nil {
		cmd.Env = os.Environ()
	}

	// Subscribed only for the lifetime of this child.
	sigCh := make(chan os.Signal, 4)
	l.notify(sigCh, l.Signals...)
	defer l.stop(sigCh)

	if err := l.start(cmd); err != nil {
		return &SpawnError{Path: l.Path, Err: err}
	}
	l.logger.Info("server started", "pid", cmd.Process.Pid)

	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	done := ctx.Done()
	for {
		select {
		case sig := <-sigCh:
			l.forward(cmd.Process, sig)
		case <-done:
			done = nil
			l.forward(cmd.Process, syscall.SIGTERM)
		case err := <-exited:
			result := l.outcome(err)
			l.logger.Info("server exited", "result", errString(result))
			return result
		}
	}
}

func (l *Launcher) withDefaults() *Launcher {
	c := *l
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if len(c.Signals) == 0 {
		c.Signals = ForwardedSignals
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.notify == nil {
		c.notify = signal.Notify
	}
	if c.stop == nil {
		c.stop = signal.Stop
	}
	if c.start == nil {
		c.start = (*exec.Cmd).Start
	}
	return &c
}

func (l *Launcher) forward(proc *os.Process, sig os.Signal) {
	l.logger.Debug("forwarding signal", "signal", sig.String(), "pid", proc.Pid)
	err := proc.Signal(sig)
	if err == nil || errors.Is(err, os.ErrProcessDone) {
		return
	}
	// Windows cannot deliver signals to another process.
	if runtime.GOOS == "windows" {
		_ = proc.Kill()
		return
	}
	l.logger.Warn("forward signal failed", "signal", sig.String(), "error", err)
}

func (l *Launcher) outcome(waitErr error) error {
	if waitErr == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return fmt.Errorf("wait for %s: %w", l.Path, waitErr)
	}
	if name, ok := signalName(exitErr.ProcessState); ok {
		return &SignalError{Signal: name}
	}
	return &ExitError{Code: exitErr.ExitCode()}
}

func errString(err error) string {
	if err == nil {
		return "ok"
	}
	return err.Error()
}
