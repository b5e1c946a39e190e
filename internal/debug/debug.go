package debug

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	once    sync.Once
	logFile *os.File
)

// open lazily opens the log file named by FLOW_DEBUG. Logging stays a no-op
// when the variable is unset or the file cannot be opened.
func open() {
	once.Do(func() {
		path := os.Getenv("FLOW_DEBUG")
		if path == "" {
			return
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return
		}
		logFile = f
	})
}

// Log writes a timestamped message to the debug log. No-op unless the
// FLOW_DEBUG environment variable points at a writable file.
func Log(format string, args ...any) {
	open()

	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return
	}

	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(logFile, "[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
}

// Close closes the debug log file if one was opened.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}
