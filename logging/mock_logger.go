package logging

import (
	"fmt"
	"strings"
	"sync"
)

// MockLogger is a logger implementation for testing
type MockLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
	level    LogLevel
}

// LogMessage represents a logged message
type LogMessage struct {
	Level   string
	Message string
	Args    []any
}

// NewMockLogger creates a mock logger that records every level.
func NewMockLogger() *MockLogger {
	return &MockLogger{
		Messages: []LogMessage{},
		level:    LogLevelDebug,
	}
}

func (m *MockLogger) record(level LogLevel, msg string, args []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.level >= level {
		m.Messages = append(m.Messages, LogMessage{
			Level:   level.String(),
			Message: msg,
			Args:    args,
		})
	}
}

func (m *MockLogger) Debug(msg string, args ...any) { m.record(LogLevelDebug, msg, args) }
func (m *MockLogger) Info(msg string, args ...any)  { m.record(LogLevelInfo, msg, args) }
func (m *MockLogger) Warn(msg string, args ...any)  { m.record(LogLevelWarn, msg, args) }
func (m *MockLogger) Error(msg string, args ...any) { m.record(LogLevelError, msg, args) }

// SetLevel sets the logging level
func (m *MockLogger) SetLevel(level LogLevel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}

// GetMessages returns all logged messages
func (m *MockLogger) GetMessages() []LogMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogMessage{}, m.Messages...)
}

// MessagesAt returns the messages recorded at the given level.
func (m *MockLogger) MessagesAt(level LogLevel) []LogMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogMessage
	for _, msg := range m.Messages {
		if msg.Level == level.String() {
			out = append(out, msg)
		}
	}
	return out
}

// Clear clears all logged messages
func (m *MockLogger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = []LogMessage{}
}

// HasMessage checks if a message with the given text was logged
func (m *MockLogger) HasMessage(text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.Messages {
		if msg.Message == text {
			return true
		}
	}
	return false
}

func (m *MockLogger) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var b strings.Builder
	for _, msg := range m.Messages {
		fmt.Fprintf(&b, "[%s] %s %v\n", msg.Level, msg.Message, msg.Args)
	}
	return b.String()
}
