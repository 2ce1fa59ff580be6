package gta

import "strings"

// Document holds the two views every extractor works from: the raw text for
// same-context patterns and the indexed, trimmed lines for positional anchors.
type Document struct {
	Raw   string
	Lines []string
}

// NewDocument indexes raw text into a Document
func NewDocument(raw string) *Document {
	return &Document{
		Raw:   raw,
		Lines: SplitLines(raw),
	}
}

// SplitLines splits text on universal line boundaries and trims each line.
// Blank lines are kept as empty strings so positional offsets stay stable.
// A trailing terminator does not produce an extra empty line.
func SplitLines(text string) []string {
	lines := make([]string, 0, strings.Count(text, "\n")+1)

	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !isLineBoundary(runes[i]) {
			continue
		}
		lines = append(lines, strings.TrimSpace(string(runes[start:i])))
		if runes[i] == '\r' && i+1 < len(runes) && runes[i+1] == '\n' {
			i++
		}
		start = i + 1
	}
	if start < len(runes) {
		lines = append(lines, strings.TrimSpace(string(runes[start:])))
	}

	return lines
}

func isLineBoundary(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// findAnchor returns the index of the first line whose upper-cased content
// equals one of the labels, or -1.
func (d *Document) findAnchor(labels ...string) int {
	for i, line := range d.Lines {
		upper := strings.ToUpper(line)
		for _, label := range labels {
			if upper == label {
				return i
			}
		}
	}
	return -1
}
