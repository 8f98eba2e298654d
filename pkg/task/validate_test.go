package task

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"
)

func validTask() *Task {
	now := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
	return &Task{
		ID:      "t-1",
		Name:    "nightly backup",
		Status:  StatusPending,
		Execute: func(ctx context.Context) (any, error) { return nil, nil },
		Options: Options{
			Expression: "0 2 * * *",
			Timezone:   "UTC",
			MaxRetries: 3,
			RetryDelay: time.Second,
			Timeout:    time.Minute,
		},
		Metadata: Metadata{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func TestValidateAcceptsWellFormedTask(t *testing.T) {
	t.Parallel()
	res := Validate(validTask())
	if !res.Valid || len(res.Errors) != 0 {
		t.Fatalf("Validate = %+v, want valid with no errors", res)
	}
}

func TestValidateAccumulatesErrors(t *testing.T) {
	t.Parallel()
	tk := validTask()
	tk.ID = ""
	tk.Name = "bad/name!"
	tk.Execute = nil
	tk.Status = Status("sleeping")
	tk.Options.Expression = "not a cron"
	tk.Metadata.RunCount = -1

	res := Validate(tk)
	if res.Valid {
		t.Fatal("Validate reported valid for a broken task")
	}
	want := []string{
		"Task ID is required",
		"Task name can only contain letters, numbers, spaces, and hyphens",
		"Task execute handler is required",
		"Task status must be one of: pending, running, completed, failed, paused",
		"Metadata runCount must be a non-negative integer",
	}
	for _, w := range want {
		if !slices.Contains(res.Errors, w) {
			t.Fatalf("Errors = %v, missing %q", res.Errors, w)
		}
	}
	if !hasPrefix(res.Errors, "Invalid cron expression: ") {
		t.Fatalf("Errors = %v, missing cron expression error", res.Errors)
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{name: "valid with hyphen", value: "report-job 2", wantErr: ""},
		{name: "empty", value: "", wantErr: "Task name is required"},
		{name: "whitespace only", value: "   ", wantErr: "Task name is required"},
		{name: "too long", value: strings.Repeat("a", 101), wantErr: "Task name cannot exceed 100 characters"},
		{name: "bad characters", value: "job_42", wantErr: "Task name can only contain letters, numbers, spaces, and hyphens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := validTask()
			tk.Name = tt.value
			res := Validate(tk)
			if tt.wantErr == "" {
				if !res.Valid {
					t.Fatalf("Validate = %+v, want valid", res)
				}
				return
			}
			if !slices.Contains(res.Errors, tt.wantErr) {
				t.Fatalf("Errors = %v, missing %q", res.Errors, tt.wantErr)
			}
		})
	}
}

func TestValidateOptionsRanges(t *testing.T) {
	t.Parallel()
	base := Options{Expression: "* * * * *"}

	tests := []struct {
		name   string
		mutate func(*Options)
		want   []string
	}{
		{
			name:   "defaults pass",
			mutate: func(o *Options) {},
			want:   nil,
		},
		{
			name: "negative retries and short delay accumulate",
			mutate: func(o *Options) {
				o.MaxRetries = -1
				o.RetryDelay = 50 * time.Millisecond
			},
			want: []string{
				"maxRetries must be a non-negative integer",
				"retryDelay must be an integer >= 100ms",
			},
		},
		{
			name:   "too many retries",
			mutate: func(o *Options) { o.MaxRetries = 11 },
			want:   []string{"maxRetries cannot exceed 10"},
		},
		{
			name:   "retry delay too long",
			mutate: func(o *Options) { o.RetryDelay = 2 * time.Hour },
			want:   []string{"retryDelay cannot exceed 3600000ms"},
		},
		{
			name:   "timeout too short",
			mutate: func(o *Options) { o.Timeout = 500 * time.Millisecond },
			want:   []string{"timeout must be an integer >= 1000ms"},
		},
		{
			name:   "timeout too long",
			mutate: func(o *Options) { o.Timeout = 25 * time.Hour },
			want:   []string{"timeout cannot exceed 86400000ms"},
		},
		{
			name:   "bad timezone",
			mutate: func(o *Options) { o.Timezone = "Mars/Olympus" },
			want:   []string{"Invalid timezone: Mars/Olympus"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base
			tt.mutate(&o)
			res := ValidateOptions(o)
			if len(tt.want) == 0 {
				if !res.Valid {
					t.Fatalf("ValidateOptions = %+v, want valid", res)
				}
				return
			}
			if res.Valid {
				t.Fatalf("ValidateOptions reported valid, want errors %v", tt.want)
			}
			for _, w := range tt.want {
				if !slices.Contains(res.Errors, w) {
					t.Fatalf("Errors = %v, missing %q", res.Errors, w)
				}
			}
		})
	}
}

func TestValidateMetadataTimestamps(t *testing.T) {
	t.Parallel()
	zero := time.Time{}

	tk := validTask()
	tk.Metadata.CreatedAt = zero
	tk.Metadata.UpdatedAt = zero
	tk.Metadata.LastRun = &zero
	tk.Metadata.NextRun = &zero

	res := Validate(tk)
	for _, w := range []string{
		"Metadata createdAt must be a valid timestamp",
		"Metadata updatedAt must be a valid timestamp",
		"Metadata lastRun must be a valid timestamp",
		"Metadata nextRun must be a valid timestamp",
	} {
		if !slices.Contains(res.Errors, w) {
			t.Fatalf("Errors = %v, missing %q", res.Errors, w)
		}
	}

	tk = validTask()
	tk.Metadata.UpdatedAt = tk.Metadata.CreatedAt.Add(-time.Minute)
	res = Validate(tk)
	if !slices.Contains(res.Errors, "Metadata updatedAt cannot precede createdAt") {
		t.Fatalf("Errors = %v, missing ordering error", res.Errors)
	}
}

func TestValidateNilTaskPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Fatal("Validate(nil) did not panic")
		}
	}()
	Validate(nil)
}

func hasPrefix(errs []string, prefix string) bool {
	for _, e := range errs {
		if strings.HasPrefix(e, prefix) {
			return true
		}
	}
	return false
}
