/**
 * @description
 * Leveled logger for the pricing backend.
 * Info and warnings go to stdout, errors to stderr, so log collectors classify them correctly.
 *
 * @dependencies
 * - standard "log"
 *
 * @notes
 * - Messages are printf-style; callers prefix them with the component name ("SnapshotService: ...").
 * - SetOutput exists for tests that assert on log lines.
 */

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu sync.Mutex
	// InfoLogger writes to stdout
	InfoLogger = log.New(os.Stdout, "", log.LstdFlags|log.LUTC)
	// ErrorLogger writes to stderr
	ErrorLogger = log.New(os.Stderr, "", log.LstdFlags|log.LUTC)
)

// Info logs an info message to stdout
func Info(format string, v ...interface{}) {
	InfoLogger.Println("INFO  " + fmt.Sprintf(format, v...))
}

// Warn logs a recoverable problem to stdout
func Warn(format string, v ...interface{}) {
	InfoLogger.Println("WARN  " + fmt.Sprintf(format, v...))
}

// Error logs an error message to stderr
func Error(format string, v ...interface{}) {
	ErrorLogger.Println("ERROR " + fmt.Sprintf(format, v...))
}

// Fatal logs an error and exits
func Fatal(format string, v ...interface{}) {
	ErrorLogger.Fatalln("FATAL " + fmt.Sprintf(format, v...))
}

// SetOutput redirects both loggers, returning a func that restores the previous writers.
func SetOutput(w io.Writer) func() {
	mu.Lock()
	defer mu.Unlock()

	prevInfo, prevErr := InfoLogger.Writer(), ErrorLogger.Writer()
	InfoLogger.SetOutput(w)
	ErrorLogger.SetOutput(w)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		InfoLogger.SetOutput(prevInfo)
		ErrorLogger.SetOutput(prevErr)
	}
}
