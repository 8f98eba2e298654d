package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"crontask/pkg/task"
)

// taskRecord is the JSON shape text-based backends write. Timestamps are
// RFC 3339 strings and durations are millisecond integers. Decoding
// re-parses every timestamp explicitly: a stored text field is never
// trusted to be a temporal value just because it was one at write time.
type taskRecord struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Status   string         `json:"status"`
	Options  optionsRecord  `json:"options"`
	Metadata metadataRecord `json:"metadata"`
}

type optionsRecord struct {
	Expression string `json:"expression"`
	Timezone   string `json:"timezone"`
	MaxRetries int    `json:"maxRetries"`
	RetryDelay int64  `json:"retryDelay"` // milliseconds
	Timeout    int64  `json:"timeout"`    // milliseconds
	Exclusive  bool   `json:"exclusive"`
	CatchUp    bool   `json:"catchUp"`
}

type metadataRecord struct {
	RunCount  int    `json:"runCount"`
	LastRun   string `json:"lastRun,omitempty"`
	NextRun   string `json:"nextRun,omitempty"`
	LastError string `json:"lastError,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func encodeRecord(t task.Task) ([]byte, error) {
	rec := taskRecord{
		ID:     t.ID,
		Name:   t.Name,
		Status: string(t.Status),
		Options: optionsRecord{
			Expression: t.Options.Expression,
			Timezone:   t.Options.Timezone,
			MaxRetries: t.Options.MaxRetries,
			RetryDelay: t.Options.RetryDelay.Milliseconds(),
			Timeout:    t.Options.Timeout.Milliseconds(),
			Exclusive:  t.Options.Exclusive,
			CatchUp:    t.Options.CatchUp,
		},
		Metadata: metadataRecord{
			RunCount:  t.Metadata.RunCount,
			LastError: t.Metadata.LastError,
			CreatedAt: t.Metadata.CreatedAt.Format(time.RFC3339Nano),
			UpdatedAt: t.Metadata.UpdatedAt.Format(time.RFC3339Nano),
		},
	}
	if t.Metadata.LastRun != nil {
		rec.Metadata.LastRun = t.Metadata.LastRun.Format(time.RFC3339Nano)
	}
	if t.Metadata.NextRun != nil {
		rec.Metadata.NextRun = t.Metadata.NextRun.Format(time.RFC3339Nano)
	}
	return json.Marshal(rec)
}

// decodeRecord rebuilds a task from stored bytes. The Execute handler is
// not serializable, so decoded tasks carry a nil handler. Any decode
// failure wraps ErrCorruptRecord.
func decodeRecord(b []byte) (task.Task, error) {
	var rec taskRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return task.Task{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	createdAt, err := parseStamp("createdAt", rec.Metadata.CreatedAt)
	if err != nil {
		return task.Task{}, err
	}
	updatedAt, err := parseStamp("updatedAt", rec.Metadata.UpdatedAt)
	if err != nil {
		return task.Task{}, err
	}
	lastRun, err := parseOptionalStamp("lastRun", rec.Metadata.LastRun)
	if err != nil {
		return task.Task{}, err
	}
	nextRun, err := parseOptionalStamp("nextRun", rec.Metadata.NextRun)
	if err != nil {
		return task.Task{}, err
	}

	return task.Task{
		ID:     rec.ID,
		Name:   rec.Name,
		Status: task.Status(rec.Status),
		Options: task.Options{
			Expression: rec.Options.Expression,
			Timezone:   rec.Options.Timezone,
			MaxRetries: rec.Options.MaxRetries,
			RetryDelay: time.Duration(rec.Options.RetryDelay) * time.Millisecond,
			Timeout:    time.Duration(rec.Options.Timeout) * time.Millisecond,
			Exclusive:  rec.Options.Exclusive,
			CatchUp:    rec.Options.CatchUp,
		},
		Metadata: task.Metadata{
			RunCount:  rec.Metadata.RunCount,
			LastRun:   lastRun,
			NextRun:   nextRun,
			LastError: rec.Metadata.LastError,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		},
	}, nil
}

func parseStamp(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, field, err)
	}
	return t, nil
}

func parseOptionalStamp(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseStamp(field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
