package logx

import (
	"golang.org/x/time/rate"
)

// Throttle caps how often a logger emits. Messages beyond the per-second
// budget are dropped, so a hot loop (for example a storage scan hitting
// hundreds of corrupt records) cannot flood the sinks.
type Throttle struct {
	log     Logger
	limiter *rate.Limiter
}

// NewThrottle wraps log with a perSec message budget (burst == perSec).
func NewThrottle(log Logger, perSec int) *Throttle {
	if perSec < 1 {
		perSec = 1
	}
	return &Throttle{
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(perSec), perSec),
	}
}

func (t *Throttle) Warn(msg string, fields ...Field) {
	if t == nil || !t.limiter.Allow() {
		return
	}
	t.log.Warn(msg, fields...)
}

func (t *Throttle) Error(msg string, fields ...Field) {
	if t == nil || !t.limiter.Allow() {
		return
	}
	t.log.Error(msg, fields...)
}
