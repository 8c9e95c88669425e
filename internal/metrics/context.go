// Package metrics implements accumulate-then-flush telemetry scopes for
// compilation and export runs.
//
// A Context collects a flat set of named metrics for the duration of a
// scope; on exit of the outermost scope the registered OnExit callback
// receives the full set along with the scope's wall-clock bounds.
// Recursive entry is allowed and accumulates into the outermost scope.
package metrics

import (
	"errors"
	"fmt"
	"time"
)

// Scope-misuse errors.
var (
	ErrNotInProgress = errors.New("metric recorded outside of an active context")
	ErrAlreadySet    = errors.New("metric has already been set in the current context")
)

// OnExit receives the accumulated metrics when the outermost scope ends.
// err is the error in flight at End time, nil on clean exit.
type OnExit func(start, end time.Time, values map[string]any, err error)

// Context accumulates a set of metrics across one (possibly recursive)
// scope. All methods that record values fail with ErrNotInProgress
// outside an active scope: that is a programming error at the call site,
// not a condition to ignore.
//
// Context is not safe for concurrent use; it mirrors the single-threaded
// compilation pipeline it instruments.
type Context struct {
	onExit OnExit
	values map[string]any
	start  time.Time
	level  int
}

// NewContext creates a metrics context flushing to onExit.
func NewContext(onExit OnExit) *Context {
	return &Context{onExit: onExit}
}

// Begin enters the scope. Recursive Begins nest; only the outermost
// resets the accumulated state and starts the clock.
func (c *Context) Begin() {
	if c.level == 0 {
		c.values = make(map[string]any)
		c.start = time.Now()
	}
	c.level++
}

// End leaves the scope. When the outermost scope ends, the OnExit
// callback runs with everything accumulated and err (the error being
// returned by the instrumented operation, if any).
func (c *Context) End(err error) {
	if c.level == 0 {
		return
	}
	c.level--
	if c.level == 0 && c.onExit != nil {
		c.onExit(c.start, time.Now(), c.values, err)
	}
}

// InProgress reports whether the scope has been entered.
func (c *Context) InProgress() bool {
	return c.level > 0
}

// Increment adds value to a counter metric, creating it at zero.
func (c *Context) Increment(metric string, value int64) error {
	if c.level == 0 {
		return fmt.Errorf("increment %q: %w", metric, ErrNotInProgress)
	}
	prev, _ := c.values[metric].(int64)
	c.values[metric] = prev + value
	return nil
}

// Set assigns a metric. Unless overwrite is set, assigning a metric that
// already has a value in the current context is an error.
func (c *Context) Set(metric string, value any, overwrite bool) error {
	if c.level == 0 {
		return fmt.Errorf("set %q: %w", metric, ErrNotInProgress)
	}
	if _, exists := c.values[metric]; exists && !overwrite {
		return fmt.Errorf("set %q: %w", metric, ErrAlreadySet)
	}
	c.values[metric] = value
	return nil
}

// SetKeyValue treats a metric as a string-keyed map and sets one entry.
// Unlike Set, repeated calls are allowed: feature-style metrics are
// recorded many times within a single compilation.
func (c *Context) SetKeyValue(metric, key string, value any) error {
	if c.level == 0 {
		return fmt.Errorf("set %q[%q]: %w", metric, key, ErrNotInProgress)
	}
	m, ok := c.values[metric].(map[string]any)
	if !ok {
		m = make(map[string]any)
		c.values[metric] = m
	}
	m[key] = value
	return nil
}

// Update assigns multiple metrics at once. It does not increment, and
// fails if any of the metrics already has a value.
func (c *Context) Update(values map[string]any) error {
	if c.level == 0 {
		return fmt.Errorf("update metrics: %w", ErrNotInProgress)
	}
	for metric := range values {
		if _, exists := c.values[metric]; exists {
			return fmt.Errorf("update %q: %w", metric, ErrAlreadySet)
		}
	}
	for metric, value := range values {
		c.values[metric] = value
	}
	return nil
}

// UpdateOuter is Update, applied only when called from the outermost
// scope; nested scopes silently skip it.
func (c *Context) UpdateOuter(values map[string]any) error {
	if c.level == 0 {
		return fmt.Errorf("update metrics: %w", ErrNotInProgress)
	}
	if c.level > 1 {
		return nil
	}
	return c.Update(values)
}

// AddToSet records a metric as a set of values.
func (c *Context) AddToSet(metric string, value any) error {
	if c.level == 0 {
		return fmt.Errorf("add %q: %w", metric, ErrNotInProgress)
	}
	set, ok := c.values[metric].(map[any]struct{})
	if !ok {
		set = make(map[any]struct{})
		c.values[metric] = set
	}
	set[value] = struct{}{}
	return nil
}
