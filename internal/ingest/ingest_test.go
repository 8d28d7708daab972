package ingest

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"pitch.pdf", true},
		{"pitch.PDF", true},
		{"pitch.docx", true},
		{"pitch.doc", true},
		{"pitch.txt", false},
		{"pitch", false},
		{"archive.zip", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Allowed(tt.filename), "Allowed(%q)", tt.filename)
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	_, err := Extract("notes.txt", []byte("hello"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported document type")
}

func TestExtract_SizeLimit(t *testing.T) {
	_, err := Extract("big.pdf", make([]byte, maxUploadSize+1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtract_DOCX(t *testing.T) {
	const doc = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := Extract("pitch.docx", buildDOCX(t, doc))
	require.NoError(t, err)
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Second paragraph.")
	// Paragraphs come out on separate lines.
	assert.NotContains(t, text, "First paragraph.Second")
}

func TestExtract_DOCXErrors(t *testing.T) {
	t.Run("not a zip", func(t *testing.T) {
		_, err := Extract("pitch.docx", []byte("plain old bytes"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only modern .docx files are supported")
	})

	t.Run("missing document part", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, err := zw.Create("other.xml")
		require.NoError(t, err)
		_, err = w.Write([]byte("<x/>"))
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		_, err = Extract("pitch.docx", buf.Bytes())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "word/document.xml")
	})

	t.Run("no text runs", func(t *testing.T) {
		_, err := Extract("pitch.docx", buildDOCX(t, `<w:document xmlns:w="http://example.com"><w:body/></w:document>`))
		require.Error(t, err)
	})
}

func TestExtract_PDFErrors(t *testing.T) {
	_, err := Extract("pitch.pdf", []byte("not actually a pdf"))
	assert.Error(t, err)
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 3, WordCount("one two three"))
	assert.Equal(t, 3, WordCount("  one\ttwo\nthree  "))
}
