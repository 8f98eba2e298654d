package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"crontask/pkg/logx"
	"crontask/pkg/task"
)

var _ Store = (*redisStore)(nil)

// scanCount is the per-iteration hint for prefix scans.
const scanCount = 100

// redisStore serializes each record as JSON under prefix+id. GetAll and
// Clear enumerate by key-prefix scan; they see whatever the scan sees,
// with no snapshot isolation.
type redisStore struct {
	cfg  Config
	rdb  *redis.Client
	log  logx.Logger
	warn *logx.Throttle
}

func newRedis(cfg Config, log logx.Logger) *redisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return &redisStore{
		cfg:  cfg,
		rdb:  rdb,
		log:  log,
		warn: logx.NewThrottle(log, 1),
	}
}

func (s *redisStore) Init(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: redis connection failed: %v", ErrUnavailable, err)
	}
	s.log.Info("connected to redis",
		logx.String("addr", s.cfg.Redis.Addr),
		logx.String("prefix", s.cfg.Prefix),
	)
	return nil
}

func (s *redisStore) Close() error { return s.rdb.Close() }

func (s *redisStore) Add(ctx context.Context, t task.Task) (task.Task, error) {
	t = prepare(t, time.Now().UTC())
	b, err := encodeRecord(t)
	if err != nil {
		return task.Task{}, fmt.Errorf("encode task %s: %w", t.ID, err)
	}
	if err := s.rdb.Set(ctx, recordKey(s.cfg.Prefix, t.ID), b, 0).Err(); err != nil {
		return task.Task{}, fmt.Errorf("persist task %s: %w", t.ID, err)
	}
	return t, nil
}

func (s *redisStore) Get(ctx context.Context, id string) (task.Task, bool, error) {
	b, err := s.rdb.Get(ctx, recordKey(s.cfg.Prefix, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return task.Task{}, false, nil
	}
	if err != nil {
		return task.Task{}, false, fmt.Errorf("load task %s: %w", id, err)
	}
	t, err := decodeRecord(b)
	if err != nil {
		return task.Task{}, false, fmt.Errorf("task %s: %w", id, err)
	}
	return t, true, nil
}

func (s *redisStore) GetAll(ctx context.Context) ([]task.Task, error) {
	var out []task.Task

	iter := s.rdb.Scan(ctx, 0, s.cfg.Prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		b, err := s.rdb.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			// Removed by a concurrent caller mid-scan.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load key %s: %w", key, err)
		}
		t, err := decodeRecord(b)
		if err != nil {
			// One poisoned record must not take every healthy schedule
			// offline; skip it and keep scanning.
			s.warn.Warn("skipping corrupt task record",
				logx.String("key", key),
				logx.Err(err),
			)
			continue
		}
		out = append(out, t)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan %s*: %w", s.cfg.Prefix, err)
	}
	return out, nil
}

func (s *redisStore) Update(ctx context.Context, id string, p task.Patch) (task.Task, error) {
	key := recordKey(s.cfg.Prefix, id)

	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("load task %s: %w", id, err)
	}
	cur, err := decodeRecord(b)
	if err != nil {
		return task.Task{}, fmt.Errorf("task %s: %w", id, err)
	}

	merged := applyPatch(cur, p, time.Now().UTC())
	nb, err := encodeRecord(merged)
	if err != nil {
		return task.Task{}, fmt.Errorf("encode task %s: %w", id, err)
	}
	if err := s.rdb.Set(ctx, key, nb, 0).Err(); err != nil {
		return task.Task{}, fmt.Errorf("persist task %s: %w", id, err)
	}
	return merged, nil
}

func (s *redisStore) Remove(ctx context.Context, id string) (bool, error) {
	n, err := s.rdb.Del(ctx, recordKey(s.cfg.Prefix, id)).Result()
	if err != nil {
		return false, fmt.Errorf("remove task %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *redisStore) Clear(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, s.cfg.Prefix+"*", scanCount).Iterator()

	keys := make([]string, 0, scanCount)
	flush := func() error {
		if len(keys) == 0 {
			return nil
		}
		if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("clear %s*: %w", s.cfg.Prefix, err)
		}
		keys = keys[:0]
		return nil
	}

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= scanCount {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan %s*: %w", s.cfg.Prefix, err)
	}
	return flush()
}
