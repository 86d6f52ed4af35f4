// Package notify is the user-facing notification sink.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Notifier receives fire-and-forget success and failure notifications.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// Log emits notifications as structured log events.
type Log struct {
	log *zap.Logger
}

// NewLog creates a log-backed notifier.
func NewLog(log *zap.Logger) *Log {
	return &Log{log: log}
}

func (n *Log) Success(msg string) {
	n.log.Info("notification", zap.String("kind", "success"), zap.String("message", msg))
}

func (n *Log) Failure(msg string) {
	n.log.Warn("notification", zap.String("kind", "failure"), zap.String("message", msg))
}

// Recorder captures notifications for tests.
type Recorder struct {
	mu        sync.Mutex
	Successes []string
	Failures  []string
}

func (r *Recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Successes = append(r.Successes, msg)
}

func (r *Recorder) Failure(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, msg)
}
