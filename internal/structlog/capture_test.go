package structlog

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture_AllowListAndOrder(t *testing.T) {
	ch := NewChannel()
	s, err := Begin(ch, []string{"guard_added", "missing_fake_kernel"})
	require.NoError(t, err)
	defer s.End()

	ch.Emit("missing_fake_kernel", map[string]any{"op": "my::a"})
	ch.Emit("exported_program", map[string]any{"payload": "..."})
	ch.Emit("guard_added", map[string]any{"expr": "s0 == 3"})
	ch.Emit("missing_fake_kernel", map[string]any{"op": "my::b"})

	events := s.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "missing_fake_kernel", events[0].Key)
	assert.Equal(t, "my::a", events[0].Metadata["op"])
	assert.Equal(t, "guard_added", events[1].Key)
	assert.Equal(t, "my::b", events[2].Metadata["op"])
}

func TestCapture_DebugGate(t *testing.T) {
	ch := NewChannel()

	collected := func(s *CaptureSession) int { return len(s.Events()) }

	s, err := Begin(ch, []string{"propagate_real_tensors"})
	require.NoError(t, err)

	assert.True(t, ch.DebugEnabled(), "Begin should open the debug gate")
	ch.EmitDebug("propagate_real_tensors", map[string]any{"expr": "u0"})
	assert.Equal(t, 1, collected(s))

	s.End()
	assert.False(t, ch.DebugEnabled(), "End should restore the gate")
	ch.EmitDebug("propagate_real_tensors", map[string]any{"expr": "u1"})
	assert.Equal(t, 1, collected(s), "no delivery after End")
}

func TestCapture_RestoresPriorGateState(t *testing.T) {
	ch := NewChannel()
	ch.SetDebug(true)

	s, err := Begin(ch, nil)
	require.NoError(t, err)
	s.End()

	assert.True(t, ch.DebugEnabled(), "a gate that was already open stays open")
}

func TestCapture_EndRunsOnErrorPath(t *testing.T) {
	ch := NewChannel()

	run := func() error {
		s, err := Begin(ch, []string{"guard_added"})
		if err != nil {
			return err
		}
		defer s.End()
		return errors.New("tracing blew up")
	}

	require.Error(t, run())
	assert.False(t, ch.DebugEnabled(), "gate restored after failed run")

	// The listener must be gone too: a fresh session may begin.
	s, err := Begin(ch, nil)
	require.NoError(t, err)
	s.End()
}

func TestCapture_SingleSessionPerChannel(t *testing.T) {
	ch := NewChannel()
	s, err := Begin(ch, nil)
	require.NoError(t, err)

	_, err = Begin(ch, nil)
	assert.ErrorIs(t, err, ErrCaptureActive)

	s.End()
	s2, err := Begin(ch, nil)
	require.NoError(t, err)
	s2.End()
}

func TestCapture_NilChannel(t *testing.T) {
	_, err := Begin(nil, nil)
	assert.ErrorIs(t, err, ErrNoChannel)
}

func TestCapture_EndIdempotent(t *testing.T) {
	ch := NewChannel()
	ch.SetDebug(true)
	s, err := Begin(ch, nil)
	require.NoError(t, err)

	s.End()
	s.End()
	assert.True(t, ch.DebugEnabled())
}

func TestSanitizeUsername(t *testing.T) {
	assert.Equal(t, "DOMAIN_alice", sanitizeUsername(`DOMAIN\alice`))
	assert.Equal(t, "a_b_c_d", sanitizeUsername(`a/b:c?d`))
	assert.Equal(t, "plain", sanitizeUsername("plain"))
}

func TestInternTable(t *testing.T) {
	ch := NewChannel()
	a := ch.InternFilename("/src/model.go")
	b := ch.InternFilename("/src/layers.go")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, ch.InternFilename("/src/model.go"), "interning is stable")

	table := ch.FilenameTable()
	assert.Equal(t, "/src/model.go", table[a])
	assert.Equal(t, "/src/layers.go", table[b])
}

func TestArtifact_RoundTrip(t *testing.T) {
	ch := NewChannel()
	ch.SetSpillDir(t.TempDir())

	fileID := ch.InternFilename("/src/model.go")
	s, err := Begin(ch, []string{"missing_fake_kernel", "guard_added"})
	require.NoError(t, err)
	defer s.End()

	ch.Emit("missing_fake_kernel", map[string]any{"op": "my::rope"})
	ch.Emit("guard_added", map[string]any{"expr": "s0 % 2 == 0"})

	path, err := s.WriteArtifact()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "trace_"))

	art, err := ReadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, s.ID, art.ID)
	require.Len(t, art.Events, 2)
	assert.Equal(t, "missing_fake_kernel", art.Events[0].Key)
	assert.Equal(t, "my::rope", art.Events[0].Metadata["op"])
	assert.Equal(t, "guard_added", art.Events[1].Key)
	assert.Equal(t, "/src/model.go", art.Files[fileID])
}

func TestArtifact_ReadMissing(t *testing.T) {
	_, err := ReadArtifact(filepath.Join(t.TempDir(), "nope.msgpack"))
	require.Error(t, err)
}

func TestChannel_EmitWithoutListeners(t *testing.T) {
	ch := NewChannel()
	// Nothing registered: emission must be a safe no-op.
	for i := 0; i < 3; i++ {
		ch.Emit("guard_added", map[string]any{"i": fmt.Sprint(i)})
	}
}
