package structlog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Artifact is the spill-to-disk form of a capture: the events in
// emission order plus the filename table needed to render stack frames
// offline.
type Artifact struct {
	ID     string         `msgpack:"id"`
	Events []Event        `msgpack:"events"`
	Files  map[int]string `msgpack:"files"`
}

// WriteArtifact spills the captured events to the channel's spill
// directory and returns the artifact path. The artifact embeds a
// snapshot of the filename intern table so it is self-contained.
func (s *CaptureSession) WriteArtifact() (string, error) {
	dir := s.SpillDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create spill dir: %w", err)
	}

	art := Artifact{
		ID:     s.ID,
		Events: s.Events(),
		Files:  s.ch.FilenameTable(),
	}

	path := filepath.Join(dir, "trace_"+s.ID+".msgpack")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()

	if err := msgpack.NewEncoder(f).Encode(&art); err != nil {
		return "", fmt.Errorf("encode artifact: %w", err)
	}
	return path, nil
}

// ReadArtifact loads a spilled capture artifact from disk.
func ReadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	var art Artifact
	if err := msgpack.NewDecoder(f).Decode(&art); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	return &art, nil
}
