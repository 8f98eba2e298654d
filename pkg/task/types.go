// Package task defines the scheduled-task model and its validator.
package task

import (
	"context"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusPaused    Status = "paused"
)

// Statuses lists every valid status, in declaration order.
var Statuses = []Status{StatusPending, StatusRunning, StatusCompleted, StatusFailed, StatusPaused}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Handler is the unit of work a task runs. Handlers are never invoked by
// this core; execution belongs to the host's executor.
type Handler func(ctx context.Context) (any, error)

// Options carries the schedule and the retry/timeout policy data of a
// task. The policy values are stored and validated here but enforced by
// the executor.
type Options struct {
	// Expression is the 5-field cron expression driving the schedule.
	Expression string `json:"expression"`

	// Timezone is the IANA zone the expression is evaluated in.
	// Storage defaults it to "UTC".
	Timezone string `json:"timezone,omitempty"`

	// MaxRetries must stay within [0,10].
	MaxRetries int `json:"maxRetries,omitempty"`

	// RetryDelay must stay within [100ms, 1h] when set; zero means unset.
	RetryDelay time.Duration `json:"retryDelay,omitempty"`

	// Timeout must stay within [1s, 24h] when set; zero means unset.
	Timeout time.Duration `json:"timeout,omitempty"`

	// Exclusive asks the executor for cross-worker mutual exclusion.
	Exclusive bool `json:"exclusive,omitempty"`

	// CatchUp asks the executor to run missed occurrences after downtime.
	CatchUp bool `json:"catchUp,omitempty"`
}

// Metadata is the execution history stamped onto a task by storage and
// the executor.
type Metadata struct {
	RunCount  int        `json:"runCount"`
	LastRun   *time.Time `json:"lastRun,omitempty"`
	NextRun   *time.Time `json:"nextRun,omitempty"`
	LastError string     `json:"lastError,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Task is a schedulable unit of work. The ID is immutable once storage
// assigns it.
type Task struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Status   Status   `json:"status"`
	Execute  Handler  `json:"-"`
	Options  Options  `json:"options"`
	Metadata Metadata `json:"metadata"`
}
