package server

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrOutsideWorkspace rejects workbook paths that escape the configured
// workspace directory.
var ErrOutsideWorkspace = errors.New("file path must be within the workspace directory")

// resolveWorkspacePath anchors a relative path under base and verifies
// the result cannot escape it, including via ".." segments or absolute
// paths pointing elsewhere.
func resolveWorkspacePath(base, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("path is required")
	}
	baseAbs, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	target := path
	if !filepath.IsAbs(target) {
		target = filepath.Join(baseAbs, target)
	}
	target = filepath.Clean(target)

	rel, err := filepath.Rel(baseAbs, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideWorkspace
	}
	return target, nil
}
