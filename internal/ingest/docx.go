package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// extractDOCX reads the main document part of an OOXML word file and collects
// its text runs. Legacy binary .doc files are not OOXML and fail the zip open.
func extractDOCX(filename string, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("could not read %s: %w (only modern .docx files are supported)", filename, err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("%s has no word/document.xml part", filename)
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("could not open document part of %s: %w", filename, err)
	}
	defer rc.Close()

	text, err := collectRuns(rc)
	if err != nil {
		return "", fmt.Errorf("could not parse %s: %w", filename, err)
	}
	if text == "" {
		return "", fmt.Errorf("could not extract text from %s", filename)
	}
	return text, nil
}

// collectRuns walks the WordprocessingML stream, joining <w:t> text nodes and
// inserting newlines at paragraph boundaries.
func collectRuns(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
