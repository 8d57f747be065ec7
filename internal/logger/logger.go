// Package logger provides leveled logging for the server. Output goes to
// stderr by default: stdout is reserved for the MCP stdio transport.
package logger

import (
	"fmt"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	std     = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
	logFile *os.File
	verbose bool
)

// SetVerbose enables debug-level output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetFile redirects log output to the given file path, appending.
func SetFile(path string) error {
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	std = log.New(f, "", log.Ltime|log.Lmicroseconds)
	return nil
}

// Close closes the log file if one was set.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
		std = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
	}
}

// Info logs an informational message.
func Info(format string, v ...any) {
	mu.Lock()
	defer mu.Unlock()
	std.Printf("[INFO] "+format, v...)
}

// Warn logs a warning.
func Warn(format string, v ...any) {
	mu.Lock()
	defer mu.Unlock()
	std.Printf("[WARN] "+format, v...)
}

// Error logs an error.
func Error(format string, v ...any) {
	mu.Lock()
	defer mu.Unlock()
	std.Printf("[ERROR] "+format, v...)
}

// Debug logs a debug message when verbose mode is on.
func Debug(format string, v ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		std.Printf("[DEBUG] "+format, v...)
	}
}
