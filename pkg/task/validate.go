package task

import (
	"regexp"
	"strings"
	"time"

	"crontask/pkg/cronexpr"
	"crontask/pkg/timezone"
)

// Validation limits. Option ranges mirror the framework contract; the
// durations are the millisecond bounds expressed as time.Durations.
const (
	MaxNameLength = 100
	MaxRetryLimit = 10

	MinRetryDelay = 100 * time.Millisecond
	MaxRetryDelay = time.Hour
	MinTimeout    = time.Second
	MaxTimeout    = 24 * time.Hour
)

var nameRE = regexp.MustCompile(`^[A-Za-z0-9 -]+$`)

// Result aggregates every violation found. Valid is true only when
// Errors is empty.
type Result struct {
	Valid  bool
	Errors []string
}

// Validate checks a full task definition and collects every violation;
// it never stops at the first one. A nil task is a caller contract
// violation and panics.
func Validate(t *Task) Result {
	if t == nil {
		panic("task: Validate called with a nil task")
	}

	var errs []string
	if strings.TrimSpace(t.ID) == "" {
		errs = append(errs, "Task ID is required")
	}
	switch {
	case strings.TrimSpace(t.Name) == "":
		errs = append(errs, "Task name is required")
	default:
		if len(t.Name) > MaxNameLength {
			errs = append(errs, "Task name cannot exceed 100 characters")
		}
		if !nameRE.MatchString(t.Name) {
			errs = append(errs, "Task name can only contain letters, numbers, spaces, and hyphens")
		}
	}
	if t.Execute == nil {
		errs = append(errs, "Task execute handler is required")
	}
	if !t.Status.Valid() {
		errs = append(errs, "Task status must be one of: pending, running, completed, failed, paused")
	}

	errs = append(errs, ValidateOptions(t.Options).Errors...)
	errs = append(errs, validateMetadata(t.Metadata)...)

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// ValidateOptions checks the options sub-object on its own. Every check
// runs; none short-circuits another.
func ValidateOptions(o Options) Result {
	var errs []string

	if _, err := cronexpr.Parse(o.Expression); err != nil {
		errs = append(errs, "Invalid cron expression: "+err.Error())
	}
	if o.Timezone != "" && !timezone.IsValid(o.Timezone) {
		errs = append(errs, "Invalid timezone: "+o.Timezone)
	}

	if o.MaxRetries < 0 {
		errs = append(errs, "maxRetries must be a non-negative integer")
	}
	if o.MaxRetries > MaxRetryLimit {
		errs = append(errs, "maxRetries cannot exceed 10")
	}

	// Zero means the option was not supplied; defaults are the
	// executor's concern.
	if o.RetryDelay != 0 {
		if o.RetryDelay < MinRetryDelay {
			errs = append(errs, "retryDelay must be an integer >= 100ms")
		}
		if o.RetryDelay > MaxRetryDelay {
			errs = append(errs, "retryDelay cannot exceed 3600000ms")
		}
	}
	if o.Timeout != 0 {
		if o.Timeout < MinTimeout {
			errs = append(errs, "timeout must be an integer >= 1000ms")
		}
		if o.Timeout > MaxTimeout {
			errs = append(errs, "timeout cannot exceed 86400000ms")
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

func validateMetadata(m Metadata) []string {
	var errs []string
	if m.RunCount < 0 {
		errs = append(errs, "Metadata runCount must be a non-negative integer")
	}
	if m.CreatedAt.IsZero() {
		errs = append(errs, "Metadata createdAt must be a valid timestamp")
	}
	if m.UpdatedAt.IsZero() {
		errs = append(errs, "Metadata updatedAt must be a valid timestamp")
	} else if !m.CreatedAt.IsZero() && m.UpdatedAt.Before(m.CreatedAt) {
		errs = append(errs, "Metadata updatedAt cannot precede createdAt")
	}
	if m.LastRun != nil && m.LastRun.IsZero() {
		errs = append(errs, "Metadata lastRun must be a valid timestamp")
	}
	if m.NextRun != nil && m.NextRun.IsZero() {
		errs = append(errs, "Metadata nextRun must be a valid timestamp")
	}
	return errs
}
