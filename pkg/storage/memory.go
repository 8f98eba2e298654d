package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crontask/pkg/logx"
	"crontask/pkg/task"
)

var _ Store = (*memoryStore)(nil)

// memoryStore keeps records in a process-lifetime map. Safe for
// concurrent use; everything is gone on restart.
type memoryStore struct {
	mu     sync.RWMutex
	prefix string
	log    logx.Logger
	tasks  map[string]task.Task // keyed by recordKey(prefix, id)
}

func newMemory(cfg Config, log logx.Logger) *memoryStore {
	return &memoryStore{
		prefix: cfg.Prefix,
		log:    log,
		tasks:  make(map[string]task.Task),
	}
}

func (s *memoryStore) Init(_ context.Context) error { return nil }

func (s *memoryStore) Close() error { return nil }

func (s *memoryStore) Add(_ context.Context, t task.Task) (task.Task, error) {
	t = prepare(t, time.Now().UTC())

	s.mu.Lock()
	s.tasks[recordKey(s.prefix, t.ID)] = cloneTask(t)
	s.mu.Unlock()

	return t, nil
}

func (s *memoryStore) Get(_ context.Context, id string) (task.Task, bool, error) {
	s.mu.RLock()
	t, ok := s.tasks[recordKey(s.prefix, id)]
	s.mu.RUnlock()
	if !ok {
		return task.Task{}, false, nil
	}
	return cloneTask(t), true, nil
}

func (s *memoryStore) GetAll(_ context.Context) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, cloneTask(t))
	}
	return out, nil
}

func (s *memoryStore) Update(_ context.Context, id string, p task.Patch) (task.Task, error) {
	key := recordKey(s.prefix, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.tasks[key]
	if !ok {
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	merged := applyPatch(cur, p, time.Now().UTC())
	s.tasks[key] = cloneTask(merged)
	return merged, nil
}

func (s *memoryStore) Remove(_ context.Context, id string) (bool, error) {
	key := recordKey(s.prefix, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.tasks[key]
	delete(s.tasks, key)
	return ok, nil
}

func (s *memoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.tasks = make(map[string]task.Task)
	s.mu.Unlock()
	return nil
}
