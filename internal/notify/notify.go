// Package notify collects the transient user-facing notifications the
// stores emit on success and failure, standing in for the toast layer
// of a web dashboard.
package notify

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelFailure Level = "failure"
)

type Notification struct {
	ID      uuid.UUID
	Level   Level
	Message string
	Time    time.Time
}

// Notifier is what the stores talk to; they never care how (or whether)
// a notification is shown.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// Center records notifications in order and optionally mirrors them to
// a logger. The presentation layer drains it after each operation.
type Center struct {
	mu      sync.Mutex
	entries []Notification
	logger  *log.Logger
}

func NewCenter(logger *log.Logger) *Center {
	return &Center{logger: logger}
}

func (c *Center) Success(message string) { c.record(LevelSuccess, message) }
func (c *Center) Failure(message string) { c.record(LevelFailure, message) }

func (c *Center) record(level Level, message string) {
	n := Notification{
		ID:      uuid.New(),
		Level:   level,
		Message: message,
		Time:    time.Now(),
	}

	c.mu.Lock()
	c.entries = append(c.entries, n)
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Printf("[%s] %s", level, message)
	}
}

// Flush returns the recorded notifications in arrival order and clears
// the center.
func (c *Center) Flush() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.entries
	c.entries = nil
	return entries
}
