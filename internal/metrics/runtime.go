package metrics

import "time"

// RuntimeContext gathers metrics that have no natural scope to wrap,
// e.g. per-invocation counters accumulated across many small calls. The
// clock starts on the first recorded value; Flush delivers everything
// gathered so far and resets.
type RuntimeContext struct {
	onExit OnExit
	values map[string]any
	start  time.Time
}

// NewRuntimeContext creates a runtime metrics context flushing to onExit.
func NewRuntimeContext(onExit OnExit) *RuntimeContext {
	return &RuntimeContext{onExit: onExit}
}

// Increment adds value to a counter metric. Extra values, when present,
// are recorded alongside it the first time each key appears; nil extra
// values are skipped.
func (r *RuntimeContext) Increment(metric string, value int64, extra map[string]any) {
	if r.values == nil {
		r.values = make(map[string]any)
		r.start = time.Now()
	}
	prev, _ := r.values[metric].(int64)
	r.values[metric] = prev + value

	for k, v := range extra {
		if v == nil {
			continue
		}
		if _, exists := r.values[k]; !exists {
			r.values[k] = v
		}
	}
}

// Flush delivers the gathered metrics to the OnExit callback and resets
// the context. Flushing an empty context is a no-op.
func (r *RuntimeContext) Flush() {
	if len(r.values) == 0 {
		return
	}
	if r.onExit != nil {
		r.onExit(r.start, time.Now(), r.values, nil)
	}
	r.values = nil
}
