package storage

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"crontask/pkg/task"
)

// Shared record-lifecycle helpers. Every backend composes these plain
// functions; there is no base type to inherit from.

// newID produces a random task identity.
func newID() string { return uuid.NewString() }

// recordKey namespaces an id within a shared keyspace.
func recordKey(prefix, id string) string { return prefix + id }

// prepare assigns identity and stamps lifecycle fields on a task being
// added. Explicitly provided values win; only gaps are filled.
func prepare(t task.Task, now time.Time) task.Task {
	if strings.TrimSpace(t.ID) == "" {
		t.ID = newID()
	}
	if strings.TrimSpace(t.Options.Timezone) == "" {
		t.Options.Timezone = "UTC"
	}
	if t.Status == "" {
		t.Status = task.StatusPending
	}
	if t.Metadata.RunCount < 0 {
		t.Metadata.RunCount = 0
	}
	t.Metadata.CreatedAt = now
	t.Metadata.UpdatedAt = now
	return t
}

// applyPatch deep-merges a partial update into a stored record. The id
// and createdAt never change; updatedAt strictly advances. lastRun and
// nextRun only move to independently valid timestamps: an invalid
// (zero) supplied value keeps the prior stored one rather than clearing
// it.
func applyPatch(stored task.Task, p task.Patch, now time.Time) task.Task {
	if p.Name != nil {
		stored.Name = *p.Name
	}
	if p.Status != nil {
		stored.Status = *p.Status
	}
	if p.Execute != nil {
		stored.Execute = p.Execute
	}

	if p.Options != nil {
		o := p.Options
		if o.Expression != nil {
			stored.Options.Expression = *o.Expression
		}
		// The stored timezone always stays non-empty.
		if o.Timezone != nil && strings.TrimSpace(*o.Timezone) != "" {
			stored.Options.Timezone = *o.Timezone
		}
		if o.MaxRetries != nil {
			stored.Options.MaxRetries = *o.MaxRetries
		}
		if o.RetryDelay != nil {
			stored.Options.RetryDelay = *o.RetryDelay
		}
		if o.Timeout != nil {
			stored.Options.Timeout = *o.Timeout
		}
		if o.Exclusive != nil {
			stored.Options.Exclusive = *o.Exclusive
		}
		if o.CatchUp != nil {
			stored.Options.CatchUp = *o.CatchUp
		}
	}

	if p.Metadata != nil {
		m := p.Metadata
		if m.RunCount != nil && *m.RunCount >= 0 {
			stored.Metadata.RunCount = *m.RunCount
		}
		if m.LastRun != nil && !m.LastRun.IsZero() {
			v := *m.LastRun
			stored.Metadata.LastRun = &v
		}
		if m.NextRun != nil && !m.NextRun.IsZero() {
			v := *m.NextRun
			stored.Metadata.NextRun = &v
		}
		if m.LastError != nil {
			stored.Metadata.LastError = *m.LastError
		}
	}

	if !now.After(stored.Metadata.UpdatedAt) {
		now = stored.Metadata.UpdatedAt.Add(time.Nanosecond)
	}
	stored.Metadata.UpdatedAt = now
	return stored
}

// cloneTask copies the pointer-typed metadata so callers cannot mutate a
// stored record through a returned value.
func cloneTask(t task.Task) task.Task {
	if t.Metadata.LastRun != nil {
		v := *t.Metadata.LastRun
		t.Metadata.LastRun = &v
	}
	if t.Metadata.NextRun != nil {
		v := *t.Metadata.NextRun
		t.Metadata.NextRun = &v
	}
	return t
}
