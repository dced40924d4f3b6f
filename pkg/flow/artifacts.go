package flow

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Artifacts resolves screenshot names against a single base directory.
// Files are overwritten on every run.
type Artifacts struct {
	Dir string
}

// Path returns the file path for name. Absolute names and names that leave
// the base directory are rejected.
func (a Artifacts) Path(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty artifact name")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("artifact %q: absolute paths are not allowed", name)
	}
	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("artifact %q escapes %s", name, a.Dir)
	}
	return filepath.Join(a.Dir, clean), nil
}
