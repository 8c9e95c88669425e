package draft

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum-ml/vellum/internal/export"
	"github.com/vellum-ml/vellum/internal/tensor"
)

func plainColors(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestReport_SuccessfulSemantics(t *testing.T) {
	empty := NewReport(nil, nil)
	assert.True(t, empty.Successful())

	rec := newRecord(MissingFakeKernelPayload{Op: "my::rope"})
	failing := NewReport([]*FailureRecord{rec}, nil)
	assert.False(t, failing.Successful())

	rec.Suppress()
	assert.True(t, failing.Successful(), "all-suppressed reports count as success")
}

func TestReport_SuccessBannerExact(t *testing.T) {
	plainColors(t)
	got := NewReport(nil, nil).String()
	assert.Equal(t, successBanner, got)
	assert.Contains(t, got, "Congratulations")
}

func TestReport_FailureBannerAndNumbering(t *testing.T) {
	plainColors(t)
	records := []*FailureRecord{
		newRecord(MissingFakeKernelPayload{Op: "my::rope"}),
		newRecord(MismatchedFakeKernelPayload{Op: "my::glu", Reason: "dtype mismatch"}),
	}
	got := NewReport(records, nil).String()

	assert.Contains(t, got, "WARNING: 2 issue(s) found during export")
	assert.Contains(t, got, "1. Missing fake kernel.")
	assert.Contains(t, got, "2. Mismatched fake kernel.")
}

func TestReport_RenderMissingFakeKernel(t *testing.T) {
	plainColors(t)
	rec := newRecord(MissingFakeKernelPayload{Op: "my::custom_op"})
	got := NewReport([]*FailureRecord{rec}, nil).String()

	assert.Contains(t, got, "my::custom_op is missing a fake kernel implementation")
	assert.Contains(t, got, fakeKernelDocs)
}

func TestReport_RenderMismatchedFakeKernel(t *testing.T) {
	plainColors(t)
	rec := newRecord(MismatchedFakeKernelPayload{Op: "my::rope", Reason: "output shape differs"})
	got := NewReport([]*FailureRecord{rec}, nil).String()

	assert.Contains(t, got, "my::rope has a fake kernel implementation")
	assert.Contains(t, got, "The reason for the mismatch is: output shape differs.")
	assert.Contains(t, got, fakeKernelDocs)
}

func TestReport_RenderConstraintViolation(t *testing.T) {
	plainColors(t)
	refined := export.ShapeSpec{"x": {0: export.Dynamic("s0", 1, 64)}}
	rec := newRecord(ConstraintViolationPayload{
		Expr:          "s0 == 3",
		SymbolSources: map[string][]string{"s0": {"x.size(0)"}},
		Stack:         []Frame{{File: 0, Line: 12, Func: "Forward"}},
		RefinedSpec:   refined,
	})
	got := NewReport([]*FailureRecord{rec}, testFiles).String()

	assert.Contains(t, got, "this guard was added: s0 == 3, where s0 = x.size(0).")
	assert.Contains(t, got, "File /home/alice/model/attention.go, lineno 12, in Forward")
	assert.Contains(t, got, `dynamic_shapes = {"x": {0: Dim("s0", min=1, max=64)}}`)
}

func TestReport_RenderDataDependent(t *testing.T) {
	plainColors(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "mask.go")
	require.NoError(t, os.WriteFile(path, []byte("package model\n\tn := mask.Sum()\n"), 0o644))
	files := map[int]string{0: path}

	rec := newRecord(DataDependentPayload{
		Expr:        "u0 > 0",
		Result:      tensor.NewMeta(tensor.Shape{1}, tensor.Int64),
		Stack:       []Frame{{File: 0, Line: 2, Func: "Forward"}},
		Occurrences: 3,
	})
	got := NewReport([]*FailureRecord{rec}, files).String()

	assert.Contains(t, got, "the value of `u0 > 0` could not be evaluated")
	assert.Contains(t, got, "This was encountered 3 time(s).")
	assert.Contains(t, got, "`n := mask.Sum()`")
	assert.Contains(t, got, "specialized to a constant (e.g. `Tensor([1], dtype=int64, grad=false)`")
	assert.Contains(t, got, dataDependentDocs)
}

func TestReport_RenderDataDependent_DeletedSource(t *testing.T) {
	plainColors(t)
	files := map[int]string{0: filepath.Join(t.TempDir(), "gone.go")}
	rec := newRecord(DataDependentPayload{
		Expr:        "u0",
		Stack:       []Frame{{File: 0, Line: 1, Func: "Forward"}},
		Occurrences: 1,
	})
	got := NewReport([]*FailureRecord{rec}, files).String()
	assert.Contains(t, got, "<no location>", "unreadable source degrades gracefully")
}

func TestReport_ApplySuggestedFixes(t *testing.T) {
	err := NewReport(nil, nil).ApplySuggestedFixes()
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestReport_ColoredBanners(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	success := NewReport(nil, nil).String()
	assert.True(t, strings.Contains(success, "\033[32m"), "success banner is green")

	failing := NewReport([]*FailureRecord{newRecord(MissingFakeKernelPayload{Op: "op"})}, nil).String()
	assert.True(t, strings.Contains(failing, "\033[33m"), "failure banner is yellow")
}

func TestFormatSymbolSources_Deterministic(t *testing.T) {
	sources := map[string][]string{
		"s1": {"y.size(1)"},
		"s0": {"x.size(0)", "z.size(0)"},
	}
	want := "s0 = x.size(0), z.size(0); s1 = y.size(1)"
	for i := 0; i < 5; i++ {
		assert.Equal(t, want, formatSymbolSources(sources))
	}
}
