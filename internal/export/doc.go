// Package export defines the vocabulary shared between the tracing
// collaborators and the draft-export pipeline: the dynamic-shape
// specification, the user-correctable constraint error raised when a
// spec turns out to be wrong during tracing, and the refinement step
// that derives a corrected spec from the error's suggested fixes.
package export
