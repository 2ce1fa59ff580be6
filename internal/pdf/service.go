package pdf

import (
	"fmt"

	"github.com/a3tai/mcp-gta-reader/internal/pdf/security"
)

// Service handles PDF file operations behind the path validator
type Service struct {
	maxFileSize   int64
	reader        *Reader
	validator     *Validator
	search        *Search
	stats         *Stats
	pathValidator *security.PathValidator
}

// NewService creates a PDF service confined to configuredDirectory and any
// extra roots (the price list folder, for instance)
func NewService(maxFileSize int64, configuredDirectory string, extraRoots ...string) (*Service, error) {
	pathValidator, err := security.NewPathValidator(append([]string{configuredDirectory}, extraRoots...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		reader:        NewReader(maxFileSize),
		validator:     NewValidator(maxFileSize),
		search:        NewSearch(maxFileSize),
		stats:         NewStats(maxFileSize),
		pathValidator: pathValidator,
	}, nil
}

// PDFReadText extracts the text of a PDF file
func (s *Service) PDFReadText(req PDFReadTextRequest) (*PDFReadTextResult, error) {
	path, err := s.pathValidator.NormalizePath(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	req.Path = path
	return s.reader.ReadText(req)
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	path, err := s.pathValidator.NormalizePath(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	req.Path = path
	return s.validator.ValidateFile(req)
}

// PDFSearchDirectory searches for PDF files in a directory, the configured
// one when req.Directory is empty
func (s *Service) PDFSearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.Root()
	}

	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	return s.search.SearchDirectory(req)
}

// PDFStatsDirectory summarizes the PDFs of a directory, the configured one
// when req.Directory is empty
func (s *Service) PDFStatsDirectory(req PDFStatsDirectoryRequest) (*PDFStatsDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.Root()
	}

	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	return s.stats.GetDirectoryStats(req)
}

// LatestPDF returns the newest PDF in the configured directory
func (s *Service) LatestPDF() (string, error) {
	return LatestFile(s.pathValidator.Root(), ".pdf")
}

// ResolvePath normalizes a user supplied path and checks it is allowed
func (s *Service) ResolvePath(path string) (string, error) {
	resolved, err := s.pathValidator.NormalizePath(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}

// Directory returns the configured GTA directory
func (s *Service) Directory() string {
	return s.pathValidator.Root()
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}
