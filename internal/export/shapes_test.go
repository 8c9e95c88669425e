package export

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeSpec_String_Deterministic(t *testing.T) {
	spec := ShapeSpec{
		"x": {0: Dynamic("batch", 1, 64), 2: Static(128)},
		"y": {1: Auto()},
	}
	want := `{"x": {0: Dim("batch", min=1, max=64), 2: 128}, "y": {1: Auto}}`
	for i := 0; i < 5; i++ {
		assert.Equal(t, want, spec.String())
	}
}

func TestShapeSpec_String_Empty(t *testing.T) {
	assert.Equal(t, "{}", ShapeSpec{}.String())
	assert.Equal(t, "{}", ShapeSpec(nil).String())
}

func TestDim_String(t *testing.T) {
	assert.Equal(t, "3", Static(3).String())
	assert.Equal(t, `Dim("seq", min=1)`, Dynamic("seq", 1, 0).String())
	assert.Equal(t, "Auto", Auto().String())
}

func TestShapeSpec_Clone_Independent(t *testing.T) {
	spec := ShapeSpec{"x": {0: Static(4)}}
	clone := spec.Clone()
	clone["x"][0] = Static(9)
	assert.Equal(t, 4, spec["x"][0].Size, "Clone must not alias the original")
}

func TestRefineShapeSpec(t *testing.T) {
	spec := ShapeSpec{"x": {0: Static(4)}}
	cerr := &ConstraintError{
		Msg: "s0 must be dynamic",
		Fixes: []SuggestedFix{
			{Input: "x", Index: 0, Dim: Dynamic("s0", 1, 0)},
			{Input: "y", Index: 1, Dim: Auto()},
		},
	}

	refined, err := RefineShapeSpec(spec, cerr)
	require.NoError(t, err)

	want := ShapeSpec{
		"x": {0: Dynamic("s0", 1, 0)},
		"y": {1: Auto()},
	}
	if diff := cmp.Diff(want, refined); diff != "" {
		t.Errorf("refined spec mismatch (-want +got):\n%s", diff)
	}

	// Original untouched.
	assert.Equal(t, DimStatic, spec["x"][0].Kind)
}

func TestRefineShapeSpec_NilSpec(t *testing.T) {
	cerr := &ConstraintError{Fixes: []SuggestedFix{{Input: "x", Index: 0, Dim: Auto()}}}
	refined, err := RefineShapeSpec(nil, cerr)
	require.NoError(t, err)
	assert.Equal(t, DimAuto, refined["x"][0].Kind)
}

func TestRefineShapeSpec_NoFixes(t *testing.T) {
	_, err := RefineShapeSpec(ShapeSpec{}, &ConstraintError{Msg: "opaque"})
	assert.ErrorIs(t, err, ErrNoSuggestedFixes)
}
