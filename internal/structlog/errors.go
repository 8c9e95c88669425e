package structlog

import "errors"

// Common errors.
var (
	ErrNoChannel     = errors.New("nil diagnostic channel")
	ErrCaptureActive = errors.New("a capture session is already active on this channel")
)
