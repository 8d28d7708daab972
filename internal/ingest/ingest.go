package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// maxUploadSize is the maximum allowed size for an uploaded document (25 MB).
	maxUploadSize = 25 * 1024 * 1024
)

// AllowedExtensions lists the upload formats the extractor understands.
var AllowedExtensions = []string{".pdf", ".doc", ".docx"}

func Allowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range AllowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

// Extract pulls plain text out of an uploaded document held in memory,
// dispatching on the file extension.
func Extract(filename string, data []byte) (string, error) {
	if len(data) > maxUploadSize {
		return "", fmt.Errorf("%s is too large (%d MB, max %d MB)", filename, len(data)/(1024*1024), maxUploadSize/(1024*1024))
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(filename, data)
	case ".doc", ".docx":
		return extractDOCX(filename, data)
	default:
		return "", fmt.Errorf("unsupported document type %s (allowed: %s)", filepath.Ext(filename), strings.Join(AllowedExtensions, ", "))
	}
}

// WordCount reports whitespace-separated words, used for ingest logging.
func WordCount(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inWord = false
		} else if !inWord {
			inWord = true
			count++
		}
	}
	return count
}
