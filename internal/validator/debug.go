package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"resumax/internal/logger"
)

// DebugWriter persists filtered/original .tex pairs for postmortem
// diffing when a brace mismatch is detected.
type DebugWriter struct {
	dir string
}

// DebugPair holds the paths of one persisted artifact pair.
type DebugPair struct {
	FilteredPath string `json:"filtered_path"`
	OriginalPath string `json:"original_path"`
}

// NewDebugWriter creates a DebugWriter rooted at dir. An empty dir
// falls back to a resumax-debug directory under the system temp dir.
func NewDebugWriter(dir string) (*DebugWriter, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "resumax-debug")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create debug directory: %w", err)
	}
	return &DebugWriter{dir: dir}, nil
}

// Dir returns the artifact directory.
func (w *DebugWriter) Dir() string {
	return w.dir
}

// WritePair writes the filtered and original documents side by side.
// Filenames carry a nanosecond timestamp so concurrent mismatches
// never collide.
func (w *DebugWriter) WritePair(filtered, original string) (*DebugPair, error) {
	stamp := time.Now().UnixNano()
	pair := &DebugPair{
		FilteredPath: filepath.Join(w.dir, fmt.Sprintf("filtered_debug_%d.tex", stamp)),
		OriginalPath: filepath.Join(w.dir, fmt.Sprintf("original_debug_%d.tex", stamp)),
	}

	if err := os.WriteFile(pair.FilteredPath, []byte(filtered), 0644); err != nil {
		return nil, fmt.Errorf("failed to write filtered debug file: %w", err)
	}
	if err := os.WriteFile(pair.OriginalPath, []byte(original), 0644); err != nil {
		return nil, fmt.Errorf("failed to write original debug file: %w", err)
	}

	logger.Info("saved brace mismatch debug pair",
		logger.String("filtered", pair.FilteredPath),
		logger.String("original", pair.OriginalPath))
	return pair, nil
}
