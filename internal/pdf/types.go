package pdf

// FileInfo represents basic file information
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// PDFReadTextRequest represents a request to extract the text of a PDF file
type PDFReadTextRequest struct {
	Path string `json:"path"`
}

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// PDFSearchDirectoryRequest represents a request to search for PDF files in a directory
type PDFSearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// Response Types

// PDFReadTextResult holds the text of a PDF, one source line per line
type PDFReadTextResult struct {
	Path  string `json:"path"`
	Text  string `json:"text"`
	Pages int    `json:"pages"`
	Size  int64  `json:"size"`
}

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// PDFSearchDirectoryResult represents the result of a PDF search operation
type PDFSearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// PDFStatsDirectoryRequest represents a request for directory statistics
type PDFStatsDirectoryRequest struct {
	Directory string `json:"directory"`
}

// PDFStatsDirectoryResult summarizes the PDFs of a directory
type PDFStatsDirectoryResult struct {
	Directory       string `json:"directory"`
	TotalFiles      int    `json:"total_files"`
	TotalSize       int64  `json:"total_size"`
	AverageFileSize int64  `json:"average_file_size"`
	LargestFileName string `json:"largest_file_name,omitempty"`
	LargestFileSize int64  `json:"largest_file_size,omitempty"`
	NewestFileName  string `json:"newest_file_name,omitempty"`
	NewestModified  string `json:"newest_modified,omitempty"`
	OldestFileName  string `json:"oldest_file_name,omitempty"`
	OldestModified  string `json:"oldest_modified,omitempty"`
}
