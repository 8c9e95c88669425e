package structlog

import (
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/google/uuid"
)

// CaptureSession scopes a listener and the channel's debug gate to one
// instrumented run.
//
// Begin registers the session as a listener and opens the debug gate;
// End restores the prior gate state and removes the listener. End is
// idempotent and must run on every exit path, so callers defer it
// immediately after a successful Begin. At most one session may be
// active per channel (the gate is shared state, see ErrCaptureActive).
type CaptureSession struct {
	// ID identifies the session; it names the spill artifact.
	ID string

	ch      *Channel
	allowed map[string]struct{}

	mu        sync.Mutex
	events    []Event
	prevDebug bool
	ended     bool
}

// Begin starts capturing events with one of the allowed keys on ch.
//
// It fails with ErrNoChannel when ch is nil (a programming error, never
// silently a no-op capture) and with ErrCaptureActive when another
// session holds the channel. The channel's spill directory is resolved
// lazily on the first Begin.
func Begin(ch *Channel, allowedKeys []string) (*CaptureSession, error) {
	if ch == nil {
		return nil, ErrNoChannel
	}

	allowed := make(map[string]struct{}, len(allowedKeys))
	for _, key := range allowedKeys {
		allowed[key] = struct{}{}
	}
	s := &CaptureSession{
		ID:      uuid.NewString(),
		ch:      ch,
		allowed: allowed,
	}

	ch.mu.Lock()
	if ch.capturing {
		ch.mu.Unlock()
		return nil, ErrCaptureActive
	}
	ch.capturing = true
	s.prevDebug = ch.debug
	ch.debug = true
	if ch.spillDir == "" {
		ch.spillDir = defaultSpillDir()
	}
	ch.mu.Unlock()

	ch.addListener(s)
	return s, nil
}

// Emit implements Listener. Events whose key is not in the allow-list
// are dropped; the rest are collected in emission order.
func (s *CaptureSession) Emit(ev Event) {
	if _, ok := s.allowed[ev.Key]; !ok {
		return
	}
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

// Events returns the captured events in emission order.
func (s *CaptureSession) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// End removes the listener and restores the prior debug gate state.
// Calling End more than once is a no-op.
func (s *CaptureSession) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	prev := s.prevDebug
	s.mu.Unlock()

	s.ch.removeListener(s)
	s.ch.mu.Lock()
	s.ch.debug = prev
	s.ch.capturing = false
	s.ch.mu.Unlock()
}

// SpillDir returns the directory where this session's artifacts land.
func (s *CaptureSession) SpillDir() string {
	s.ch.mu.Lock()
	defer s.ch.mu.Unlock()
	return s.ch.spillDir
}

var unsafePathChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// defaultSpillDir resolves the per-user temporary directory for spilled
// diagnostic artifacts, e.g. /tmp/export_alice.
func defaultSpillDir() string {
	return filepath.Join(os.TempDir(), "export_"+sanitizeUsername(currentUsername()))
}

func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}

// sanitizeUsername strips path-unsafe characters from a user identifier
// so it can name a directory on any platform.
func sanitizeUsername(name string) string {
	return unsafePathChars.ReplaceAllString(name, "_")
}
