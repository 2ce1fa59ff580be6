package pdf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNoFiles is returned by LatestFile when the directory holds no match
var ErrNoFiles = errors.New("no matching files")

const modTimeLayout = "2006-01-02 15:04:05"

// Search lists certificate PDFs under a directory
type Search struct {
	validator *Validator
}

// NewSearch creates a new PDF search handler with the specified constraints
func NewSearch(maxFileSize int64) *Search {
	return &Search{validator: NewValidator(maxFileSize)}
}

// SearchDirectory walks req.Directory for PDFs whose names match req.Query,
// newest first. Hidden directories, lock files and files failing the size
// checks are skipped.
func (s *Search) SearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	if req.Directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	root, err := filepath.Abs(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", req.Directory)
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	files := []FileInfo{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		// Symlinked files are not followed out of the tree
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if strings.HasPrefix(d.Name(), "~$") || !isPDFFile(d.Name()) {
			return nil
		}
		if !matchesQuery(d.Name(), query) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // vanished between listing and stat
		}
		if s.validator.ValidateFileInfo(path, info) != nil {
			return nil
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format(modTimeLayout),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].ModifiedTime > files[j].ModifiedTime
	})

	return &PDFSearchDirectoryResult{
		Files:       files,
		TotalCount:  len(files),
		Directory:   root,
		SearchQuery: req.Query,
	}, nil
}

// matchesQuery accepts a name when every query word occurs in it. Word
// separators are the ones found in certificate file names.
func matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}

	name := strings.TrimSuffix(strings.ToLower(filename), ".pdf")
	if strings.Contains(name, query) {
		return true
	}

	words := splitWords(name)
	for _, q := range splitWords(query) {
		found := false
		for _, w := range words {
			if strings.Contains(w, q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ' ', '_', '-', '.', '(', ')', '[', ']':
			return true
		}
		return false
	})
}

// LatestFile returns the most recently modified file in dir (not recursive)
// with the given extension. Office lock files ("~$...") are ignored.
func LatestFile(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading directory: %w", err)
	}

	ext = strings.ToLower(ext)
	var (
		latest   string
		latestAt time.Time
	)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") || !strings.HasSuffix(strings.ToLower(name), ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestAt) {
			latest = filepath.Join(dir, name)
			latestAt = info.ModTime()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("%w: no %s files in %s", ErrNoFiles, ext, dir)
	}
	return latest, nil
}
