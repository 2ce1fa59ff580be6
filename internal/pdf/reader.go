package pdf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned when a PDF yields no extractable text, typically a
// scanned certificate without a text layer
var ErrNoText = errors.New("no text content could be extracted from PDF")

// wordGap is the horizontal gap, as a fraction of the font size, above which
// two text runs on the same row are separated by a space
const wordGap = 0.2

// Reader handles PDF text extraction
type Reader struct {
	maxFileSize int64
	maxTextSize int
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// ReadText extracts the text of every page, rebuilding one line per text row
// so labels and values keep the line structure of the printed form
func (r *Reader) ReadText(req PDFReadTextRequest) (*PDFReadTextResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(req.Path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", req.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := checkFileInfo(req.Path, fileInfo, r.maxFileSize); err != nil {
		return nil, err
	}

	f, pdfReader, err := pdf.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	text, err := r.extractText(pdfReader)
	if err != nil {
		return nil, err
	}

	return &PDFReadTextResult{
		Path:  req.Path,
		Text:  text,
		Pages: pdfReader.NumPage(),
		Size:  fileInfo.Size(),
	}, nil
}

func (r *Reader) extractText(pdfReader *pdf.Reader) (string, error) {
	var builder strings.Builder

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			// Continue with other pages even if one fails
			continue
		}

		for _, row := range rows {
			line := joinRow(row.Content)
			if strings.TrimSpace(line) == "" {
				continue
			}
			if builder.Len()+len(line)+1 > r.maxTextSize {
				return finish(builder.String())
			}
			builder.WriteString(line)
			builder.WriteByte('\n')
		}
	}

	return finish(builder.String())
}

func finish(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

// joinRow concatenates the text runs of a row. Runs drawn at distinct
// positions are separate words; kerned pieces of one TJ share a position.
func joinRow(texts pdf.TextHorizontal) string {
	var sb strings.Builder
	var prev *pdf.Text
	for i := range texts {
		t := &texts[i]
		if t.S == "" {
			continue
		}
		if prev != nil && t.X > prev.X+prev.W+prev.FontSize*wordGap &&
			!strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(t.S, " ") {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.S)
		prev = t
	}
	return sb.String()
}

// checkFileInfo performs the checks that do not need to open the file
func checkFileInfo(filePath string, fileInfo os.FileInfo, maxFileSize int64) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !isPDFFile(filePath) {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), maxFileSize)
	}

	return nil
}

// isPDFFile checks if a file has a PDF extension
func isPDFFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}
