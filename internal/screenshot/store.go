package screenshot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store writes screenshot and recording artifacts under a base directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir, defaulting to the system temp
// directory when dir is empty.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "ios-simulator-mcp")
	}
	return &Store{dir: dir}
}

// Dir returns the artifact directory.
func (s *Store) Dir() string { return s.dir }

// SaveScreenshot writes data to a timestamped file and returns its path.
func (s *Store) SaveScreenshot(data []byte, format Format) (string, error) {
	ext := "png"
	if format == FormatJPEG {
		ext = "jpg"
	}
	name := fmt.Sprintf("screenshot-%s-%s.%s",
		time.Now().Format("20060102-150405"), uuid.NewString()[:8], ext)
	return s.write(name, data)
}

// SaveRecording writes captured video bytes to a timestamped file and
// returns its path.
func (s *Store) SaveRecording(data []byte) (string, error) {
	name := fmt.Sprintf("recording-%s-%s.mp4",
		time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	return s.write(name, data)
}

func (s *Store) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}
