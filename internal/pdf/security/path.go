package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator confines file access to a set of root directories. The first
// root is the default one used to resolve relative paths.
type PathValidator struct {
	roots []string
}

// NewPathValidator creates a validator for the given roots. Roots do not need
// to exist yet; a missing root is created by the configuration layer later.
func NewPathValidator(roots ...string) (*PathValidator, error) {
	if len(roots) == 0 || roots[0] == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	clean := make([]string, 0, len(roots))
	for _, r := range roots {
		if r == "" {
			continue
		}
		abs, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve directory %s: %w", r, err)
		}
		clean = append(clean, filepath.Clean(abs))
	}

	return &PathValidator{roots: clean}, nil
}

// ValidatePath checks that path lies inside one of the roots
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path contains a null byte")
	}

	within, err := v.IsPathWithinRoots(path)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return fmt.Errorf("path is outside configured directories: %s", path)
	}
	return nil
}

// IsPathWithinRoots reports whether path, after resolving symlinks, lies
// inside one of the roots. A root that does not exist yet accepts nothing
// but its own subtree by name.
func (v *PathValidator) IsPathWithinRoots(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	cleanPath := filepath.Clean(absPath)

	realPath := cleanPath
	if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
		realPath = resolved
	}

	for _, root := range v.roots {
		realRoot := root
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			realRoot = resolved
		}

		if (within(cleanPath, root) || within(cleanPath, realRoot)) &&
			(within(realPath, root) || within(realPath, realRoot)) {
			return true, nil
		}
	}
	return false, nil
}

func within(path, dir string) bool {
	if path == dir {
		return true
	}
	prefix := dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// Root returns the default directory
func (v *PathValidator) Root() string {
	return v.roots[0]
}

// Roots returns every allowed directory
func (v *PathValidator) Roots() []string {
	return append([]string(nil), v.roots...)
}

// NormalizePath resolves path against the default root when relative and
// validates the result
func (v *PathValidator) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	path = strings.ReplaceAll(path, "\x00", "")

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.Root(), path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if err := v.ValidatePath(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// ValidateDirectory checks that dirPath is an allowed directory. A directory
// that does not exist yet is accepted.
func (v *PathValidator) ValidateDirectory(dirPath string) error {
	if err := v.ValidatePath(dirPath); err != nil {
		return err
	}

	info, err := os.Stat(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dirPath)
	}
	return nil
}
