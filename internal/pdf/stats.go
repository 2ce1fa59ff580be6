package pdf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Stats summarizes the GTA PDFs of a directory
type Stats struct {
	validator *Validator
}

// NewStats creates a directory statistics collector
func NewStats(maxFileSize int64) *Stats {
	return &Stats{validator: NewValidator(maxFileSize)}
}

// GetDirectoryStats walks directory and summarizes the PDFs that pass the
// file checks. Office lock files and hidden directories are skipped, as in
// SearchDirectory.
func (s *Stats) GetDirectoryStats(req PDFStatsDirectoryRequest) (*PDFStatsDirectoryResult, error) {
	directory := req.Directory
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}
	if _, err := os.Stat(directory); err != nil {
		return nil, fmt.Errorf("cannot access directory: %w", err)
	}

	result := &PDFStatsDirectoryResult{Directory: directory}
	var newest, oldest time.Time

	err := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		name := d.Name()
		if d.IsDir() {
			if path != directory && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, "~$") || !isPDFFile(name) {
			return nil
		}

		info, err := d.Info()
		if err != nil || s.validator.ValidateFileInfo(path, info) != nil {
			return nil //nolint:nilerr // not counted
		}

		result.TotalFiles++
		result.TotalSize += info.Size()
		if info.Size() > result.LargestFileSize {
			result.LargestFileSize = info.Size()
			result.LargestFileName = name
		}
		if mod := info.ModTime(); newest.IsZero() || mod.After(newest) {
			newest = mod
			result.NewestFileName = name
		}
		if mod := info.ModTime(); oldest.IsZero() || mod.Before(oldest) {
			oldest = mod
			result.OldestFileName = name
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	if result.TotalFiles > 0 {
		result.AverageFileSize = result.TotalSize / int64(result.TotalFiles)
		result.NewestModified = newest.Format(modTimeLayout)
		result.OldestModified = oldest.Format(modTimeLayout)
	}
	return result, nil
}
