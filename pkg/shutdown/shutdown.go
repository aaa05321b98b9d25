// Package shutdown handles crabdb's signal-driven graceful shutdown and
// fatal-startup crash reporting.
package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"crabdb/pkg/logger"
)

// SetupSignalHandler installs handlers for SIGINT and SIGTERM and
// returns a context cancelled when either arrives, so the accept loop
// can stop accepting and the worker pool can drain outstanding
// connections before the process exits with code 0.
func SetupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigc
		logger.Info("signal_received", "signal", s.String(), "msg", "shutdown requested")
		cancel()
	}()

	return ctx, cancel
}

// Abort logs a fatal startup error, writes a best-effort crash
// diagnostic under aolDir, and exits with a non-zero code. It is used
// for the two conditions the spec names as fatal: listener bind failure
// and AOL recovery corruption.
func Abort(contextMsg string, err error, aolDir string) {
	logger.Error("startup_fatal", "msg", contextMsg, "error", err)
	path, derr := writeCrashDump(aolDir, contextMsg, err)
	if derr != nil {
		fmt.Fprintf(os.Stderr, "crabdb: failed to write crash dump: %v\n", derr)
	} else {
		fmt.Fprintf(os.Stderr, "crabdb: crash dump written: %s\n", path)
	}
	os.Exit(1)
}

// writeCrashDump writes a timestamped text file under
// <aolDir>/crash recording the error, reason, and current goroutine
// stacks — enough for a postmortem without requiring the process to
// have been running with a debugger attached.
func writeCrashDump(aolDir, reason string, err error) (string, error) {
	crashDir := "./crash"
	if aolDir != "" {
		crashDir = filepath.Join(aolDir, "crash")
	}
	if e := os.MkdirAll(crashDir, 0o700); e != nil {
		return "", fmt.Errorf("create crash dir: %w", e)
	}

	name := fmt.Sprintf("crash-%d.log", time.Now().UnixNano())
	path := filepath.Join(crashDir, name)

	f, ferr := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if ferr != nil {
		return "", fmt.Errorf("create crash dump: %w", ferr)
	}
	defer f.Close()

	fmt.Fprintf(f, "time: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(f, "reason: %s\n", reason)
	fmt.Fprintf(f, "error: %v\n", err)
	fmt.Fprintf(f, "\n--- goroutine stacks ---\n")
	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)
	f.Write(buf[:n])

	return path, nil
}
