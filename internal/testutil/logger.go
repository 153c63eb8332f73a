package testutil

import (
	"fmt"
	"strings"
	"sync"
)

// RecordingLogger captures log messages for assertions. Safe for
// concurrent use.
type RecordingLogger struct {
	mu    sync.Mutex
	Lines []string
}

// NewRecordingLogger creates a new RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) log(level string, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := level + "\t" + msg
	for i := 0; i+1 < len(args); i += 2 {
		line += fmt.Sprintf("\t%v=%v", args[i], args[i+1])
	}
	l.Lines = append(l.Lines, line)
}

func (l *RecordingLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args) }

// Contains reports whether any recorded line contains substr.
func (l *RecordingLogger) Contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.Lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
