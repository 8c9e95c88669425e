package structlog

import (
	"sync"
)

// Event is a single structured diagnostic record: a string key plus a
// metadata mapping. Instrumented operations (the tracer, the shape
// solver, the fake-kernel dispatcher) emit events; the draft-export
// classifier consumes them.
type Event struct {
	Key      string         `msgpack:"key"`
	Metadata map[string]any `msgpack:"metadata"`
}

// Listener receives events emitted on a Channel.
type Listener interface {
	Emit(ev Event)
}

// Channel is a diagnostic event channel.
//
// A single instance is shared process-wide (see Default): emitters and
// the capture session rendezvous on it. Deliveries are serialized under
// the channel lock, so listeners observe events in emission order.
type Channel struct {
	mu        sync.Mutex
	listeners []Listener
	debug     bool // gate for normally-suppressed debug events
	capturing bool
	spillDir  string

	interns internTable
}

// NewChannel creates an empty diagnostic channel.
func NewChannel() *Channel {
	return &Channel{}
}

var defaultChannel = NewChannel()

// Default returns the process-wide diagnostic channel.
//
// Library code should accept a *Channel explicitly and treat this as the
// entry-point fallback only.
func Default() *Channel {
	return defaultChannel
}

// Emit delivers an event to all registered listeners.
func (c *Channel) Emit(key string, metadata map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ev := Event{Key: key, Metadata: metadata}
	for _, l := range c.listeners {
		l.Emit(ev)
	}
}

// EmitDebug delivers an event only while the debug gate is open.
//
// Debug events (e.g. real-tensor propagation traces) are expensive to
// produce, so emitters call DebugEnabled first and skip building the
// metadata entirely when the gate is closed.
func (c *Channel) EmitDebug(key string, metadata map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.debug {
		return
	}
	ev := Event{Key: key, Metadata: metadata}
	for _, l := range c.listeners {
		l.Emit(ev)
	}
}

// DebugEnabled reports whether the debug gate is open.
func (c *Channel) DebugEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.debug
}

// SetDebug opens or closes the debug gate and returns the prior state.
func (c *Channel) SetDebug(enabled bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.debug
	c.debug = enabled
	return prev
}

// SetSpillDir overrides the directory used for spilled artifacts.
// When unset, the first capture resolves a per-user temp directory.
func (c *Channel) SetSpillDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spillDir = dir
}

// InternFilename interns a source path and returns its stable id.
// Repeated calls with the same path return the same id.
func (c *Channel) InternFilename(path string) int {
	return c.interns.intern(path)
}

// FilenameTable returns a snapshot of the intern table, mapping interned
// ids back to real paths.
func (c *Channel) FilenameTable() map[int]string {
	return c.interns.snapshot()
}

func (c *Channel) addListener(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

func (c *Channel) removeListener(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, reg := range c.listeners {
		if reg == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

// internTable assigns stable integer ids to source paths so stack frames
// can reference files compactly.
type internTable struct {
	mu    sync.Mutex
	ids   map[string]int
	paths []string
}

func (t *internTable) intern(path string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ids == nil {
		t.ids = make(map[string]int)
	}
	if id, ok := t.ids[path]; ok {
		return id
	}
	id := len(t.paths)
	t.ids[path] = id
	t.paths = append(t.paths, path)
	return id
}

func (t *internTable) snapshot() map[int]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	table := make(map[int]string, len(t.paths))
	for id, path := range t.paths {
		table[id] = path
	}
	return table
}
