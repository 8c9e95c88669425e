package draft

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Frame is one stack frame recorded by the tracer. Filenames are
// interned ids resolved through the channel's filename table.
type Frame struct {
	File int    `msgpack:"file"`
	Line int    `msgpack:"line"`
	Func string `msgpack:"func"`
}

// InternalFunc reports whether a source path belongs to the framework
// itself rather than user code. The classifier uses it to trim stacks
// down to the frames a user can act on.
type InternalFunc func(path string) bool

// DefaultIsInternal treats any path under a vellum source tree as
// framework-internal.
func DefaultIsInternal(path string) bool {
	return strings.Contains(path, "/vellum/")
}

// filterStack keeps the last 3 frames ending at the innermost user
// frame: walking from the end of the stack, the first resolvable frame
// that is not framework-internal anchors the window. When every frame is
// internal or unresolvable, the trailing 3 frames are kept.
func filterStack(stack []Frame, table map[int]string, isInternal InternalFunc) []Frame {
	for i := 0; i < len(stack); i++ {
		f := stack[len(stack)-1-i]
		path, ok := table[f.File]
		if !ok {
			continue
		}
		if !isInternal(path) {
			end := len(stack) - i
			start := end - 3
			if start < 0 {
				start = 0
			}
			return stack[start:end]
		}
	}
	if len(stack) > 3 {
		return stack[len(stack)-3:]
	}
	return stack
}

// stackKey derives the dedup identity of a filtered stack: the ordered
// concatenation of (line, filename) pairs.
func stackKey(stack []Frame) string {
	parts := make([]string, len(stack))
	for i, f := range stack {
		parts[i] = fmt.Sprintf("line: %d filename: %d", f.Line, f.File)
	}
	return strings.Join(parts, ";")
}

// prettyStack renders a stack one frame per line, resolving interned
// filenames. Frames whose file id is unknown are skipped.
func prettyStack(stack []Frame, table map[int]string) string {
	var b strings.Builder
	for _, f := range stack {
		path, ok := table[f.File]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n        File %s, lineno %d, in %s", path, f.Line, f.Func)
	}
	return b.String()
}

// sourceLine reads the given 1-based line from a source file. It
// returns "" when the file cannot be read (e.g. already deleted);
// rendering degrades to "no location" rather than failing.
func sourceLine(path string, line int) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for i := 1; scanner.Scan(); i++ {
		if i == line {
			return strings.TrimSpace(scanner.Text())
		}
	}
	return ""
}
