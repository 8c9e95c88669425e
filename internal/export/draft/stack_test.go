package draft

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFiles = map[int]string{
	0: "/home/alice/model/attention.go",
	1: "/home/alice/model/main.go",
	2: "/opt/vellum/internal/tracer/trace.go",
	3: "/opt/vellum/internal/shapes/solver.go",
}

func frame(file, line int) Frame {
	return Frame{File: file, Line: line, Func: "fn"}
}

func TestFilterStack_KeepsWindowAroundLastUserFrame(t *testing.T) {
	stack := []Frame{
		frame(1, 10), // user
		frame(1, 20), // user
		frame(0, 30), // user (innermost user frame)
		frame(2, 40), // internal
		frame(3, 50), // internal
	}
	got := filterStack(stack, testFiles, DefaultIsInternal)
	require.Len(t, got, 3)
	assert.Equal(t, 10, got[0].Line)
	assert.Equal(t, 20, got[1].Line)
	assert.Equal(t, 30, got[2].Line, "window ends at the innermost user frame")
}

func TestFilterStack_AllInternalKeepsTrailingThree(t *testing.T) {
	stack := []Frame{frame(2, 1), frame(3, 2), frame(2, 3), frame(3, 4)}
	got := filterStack(stack, testFiles, DefaultIsInternal)
	require.Len(t, got, 3)
	assert.Equal(t, 2, got[0].Line)
}

func TestFilterStack_ShortStack(t *testing.T) {
	stack := []Frame{frame(0, 7)}
	got := filterStack(stack, testFiles, DefaultIsInternal)
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].Line)
}

func TestFilterStack_UnresolvableFramesSkipped(t *testing.T) {
	stack := []Frame{
		frame(1, 10),
		frame(0, 20),
		frame(99, 30), // not in the table
	}
	got := filterStack(stack, testFiles, DefaultIsInternal)
	// The unresolvable trailing frame is skipped when anchoring, but the
	// window still ends at the last resolvable user frame.
	require.Len(t, got, 2)
	assert.Equal(t, 20, got[len(got)-1].Line)
}

func TestStackKey(t *testing.T) {
	a := []Frame{frame(0, 10), frame(1, 20)}
	b := []Frame{frame(0, 10), frame(1, 20)}
	c := []Frame{frame(0, 10), frame(1, 21)}
	assert.Equal(t, stackKey(a), stackKey(b))
	assert.NotEqual(t, stackKey(a), stackKey(c))
	assert.NotEqual(t, stackKey(a), stackKey(a[:1]), "prefix stacks must not collide")
}

func TestPrettyStack(t *testing.T) {
	stack := []Frame{
		{File: 0, Line: 12, Func: "Forward"},
		{File: 99, Line: 1, Func: "ghost"},
	}
	got := prettyStack(stack, testFiles)
	assert.Contains(t, got, "File /home/alice/model/attention.go, lineno 12, in Forward")
	assert.NotContains(t, got, "ghost", "unresolvable frames are skipped")
}

func TestSourceLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.go")
	require.NoError(t, os.WriteFile(path, []byte("package model\n\n\tx := tensor.Sum(mask)\n"), 0o644))

	assert.Equal(t, "x := tensor.Sum(mask)", sourceLine(path, 3))
	assert.Equal(t, "", sourceLine(path, 42), "line past EOF")
	assert.Equal(t, "", sourceLine(filepath.Join(dir, "deleted.go"), 1), "missing file degrades to empty")
}
