package server

import (
	"fmt"
	"strings"
	"time"
)

// ConsoleMessage is a renderer log line forwarded to the browser console
type ConsoleMessage struct {
	Session   string    `json:"session"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger for one render session. Lines go to stdout and,
// without blocking, to the session's console channel.
type WebLogger struct {
	sessionID   string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger for sessionID; consoleChan may be nil
func NewWebLogger(sessionID string, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		sessionID:   sessionID,
		consoleChan: consoleChan,
	}
}

// Printf formats a log line and forwards it
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Printf("[%s] %s", wl.sessionID, message)

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Session:   wl.sessionID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     messageLevel(message),
	}:
	default:
		// Dropped: the stream is behind
	}
}

// messageLevel classifies renderer log lines for the console
func messageLevel(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "error"), strings.Contains(lower, "failed"):
		return "error"
	case strings.Contains(lower, "warning"), strings.Contains(lower, "ignoring"):
		return "warning"
	}
	return "info"
}
