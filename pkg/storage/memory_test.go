package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"crontask/pkg/logx"
	"crontask/pkg/task"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := Open(Config{Driver: "memory"}, logx.Nop())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	return s
}

func TestMemoryAddAssignsLifecycle(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	in := task.Task{
		Name:    "heartbeat",
		Execute: func(ctx context.Context) (any, error) { return "ok", nil },
		Options: task.Options{Expression: "* * * * *"},
	}
	added, err := s.Add(ctx, in)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if added.ID == "" {
		t.Fatal("Add did not assign an id")
	}
	if added.Options.Timezone != "UTC" {
		t.Fatalf("timezone = %q, want UTC", added.Options.Timezone)
	}
	if added.Metadata.CreatedAt.IsZero() || !added.Metadata.UpdatedAt.Equal(added.Metadata.CreatedAt) {
		t.Fatalf("timestamps not stamped: %+v", added.Metadata)
	}

	got, ok, err := s.Get(ctx, added.ID)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v, want stored record", ok, err)
	}
	if got.Name != in.Name || got.Options.Expression != in.Options.Expression {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Execute == nil {
		t.Fatal("memory store lost the Execute handler")
	}
}

func TestMemoryGetMissing(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, ok, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if ok {
		t.Fatal("Get reported a record for an unknown id")
	}
}

func TestMemoryUpdate(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, task.Task{Name: "sync", Options: task.Options{Expression: "0 * * * *"}})
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}

	status := task.StatusRunning
	count := 1
	lastRun := time.Now().UTC()
	updated, err := s.Update(ctx, added.ID, task.Patch{
		Status:   &status,
		Metadata: &task.MetadataPatch{RunCount: &count, LastRun: &lastRun},
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Status != task.StatusRunning || updated.Metadata.RunCount != 1 {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Name != "sync" || updated.Options.Expression != "0 * * * *" {
		t.Fatalf("unpatched fields changed: %+v", updated)
	}
	if !updated.Metadata.UpdatedAt.After(added.Metadata.UpdatedAt) {
		t.Fatalf("updatedAt did not advance: %v -> %v", added.Metadata.UpdatedAt, updated.Metadata.UpdatedAt)
	}
	if !updated.Metadata.CreatedAt.Equal(added.Metadata.CreatedAt) {
		t.Fatal("createdAt changed on update")
	}

	got, ok, err := s.Get(ctx, added.ID)
	if err != nil || !ok {
		t.Fatalf("Get after update = %v, %v", ok, err)
	}
	if got.Status != task.StatusRunning {
		t.Fatalf("update not persisted: %+v", got)
	}
}

func TestMemoryUpdateUnknownID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.Update(context.Background(), "ghost", task.Patch{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update error = %v, want ErrNotFound", err)
	}
}

func TestMemoryRemove(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, task.Task{Name: "tmp"})
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}

	ok, err := s.Remove(ctx, added.ID)
	if err != nil || !ok {
		t.Fatalf("Remove = %v, %v, want true", ok, err)
	}
	if _, found, _ := s.Get(ctx, added.ID); found {
		t.Fatal("record still present after Remove")
	}

	ok, err = s.Remove(ctx, added.ID)
	if err != nil {
		t.Fatalf("second Remove error: %v", err)
	}
	if ok {
		t.Fatal("second Remove reported an existing record")
	}
}

func TestMemoryGetAllAndClear(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if _, err := s.Add(ctx, task.Task{Name: name}); err != nil {
			t.Fatalf("Add(%s) error: %v", name, err)
		}
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("GetAll returned %d records, want 3", len(all))
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	all, err = s.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll after Clear error: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("GetAll after Clear returned %d records, want 0", len(all))
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	lastRun := time.Now().UTC()
	added, err := s.Add(ctx, task.Task{Name: "iso", Metadata: task.Metadata{LastRun: &lastRun}})
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}

	got, _, err := s.Get(ctx, added.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	*got.Metadata.LastRun = got.Metadata.LastRun.Add(time.Hour)

	again, _, err := s.Get(ctx, added.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !again.Metadata.LastRun.Equal(lastRun) {
		t.Fatal("mutating a returned record leaked into the store")
	}
}
