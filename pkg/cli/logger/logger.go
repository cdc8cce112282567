package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

var (
	logger  *log.Logger
	logFile *os.File
)

const prefix = "[notifier] "

// Init opens a timestamped log file under logDir. Until Init is called the
// Log functions are no-ops.
func Init(logDir string) {
	CloseLog()

	// Create log directory if it doesn't exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		// If we can't create log dir, just use stderr
		logger = log.New(os.Stderr, prefix, log.LstdFlags|log.Lshortfile)
		return
	}

	// Create log file with timestamp
	logFileName := filepath.Join(logDir, fmt.Sprintf("cli-%s.log", time.Now().Format("20060102-150405")))

	var err error
	logFile, err = os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// If we can't open log file, use stderr
		logger = log.New(os.Stderr, prefix, log.LstdFlags|log.Lshortfile)
		return
	}

	// Create logger that writes only to file
	logger = log.New(logFile, prefix, log.LstdFlags|log.Lshortfile)
}

// Path returns the current log file, or "" when logging to stderr or disabled
func Path() string {
	if logFile == nil {
		return ""
	}
	return logFile.Name()
}

// Log writes a log message
func Log(format string, v ...interface{}) {
	if logger != nil {
		logger.Output(2, fmt.Sprintf(format, v...))
	}
}

// LogError writes an error log message
func LogError(err error, format string, v ...interface{}) {
	if logger != nil {
		msg := fmt.Sprintf(format, v...)
		logger.Output(2, fmt.Sprintf("ERROR: %s: %v", msg, err))
	}
}

// CloseLog closes the log file
func CloseLog() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = nil
}
