package documents

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF renders a minimal PDF with one Helvetica text line per page.
func buildPDF(lines ...string) []byte {
	var objects []string
	pageCount := len(lines)

	kids := make([]string, pageCount)
	for i := range lines {
		kids[i] = fmt.Sprintf("%d 0 R", 4+i*2)
	}

	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pageCount))
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, line := range lines {
		content := ""
		if line != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", line)
		}
		objects = append(objects, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+i*2))
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	var buffer bytes.Buffer
	buffer.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, object := range objects {
		offsets[i] = buffer.Len()
		fmt.Fprintf(&buffer, "%d 0 obj\n%s\nendobj\n", i+1, object)
	}

	xref := buffer.Len()
	fmt.Fprintf(&buffer, "xref\n0 %d\n", len(objects)+1)
	buffer.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets {
		fmt.Fprintf(&buffer, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buffer, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buffer.Bytes()
}

func TestExtract(t *testing.T) {
	extractor := NewExtractor(&DocumentsConfig{MaxPages: 5, MaxChars: 3000, MaxBytes: 1 << 20})

	text, err := extractor.Extract(buildPDF("Hello from page one"))
	require.NoError(t, err)
	assert.Contains(t, text, "Hello from page one")
}

func TestExtractReadsAtMostMaxPages(t *testing.T) {
	extractor := NewExtractor(&DocumentsConfig{MaxPages: 2, MaxChars: 3000})

	text, err := extractor.Extract(buildPDF("first", "second", "third"))
	require.NoError(t, err)
	assert.Contains(t, text, "first")
	assert.Contains(t, text, "second")
	assert.NotContains(t, text, "third")
}

func TestExtractCapsCharacters(t *testing.T) {
	extractor := NewExtractor(&DocumentsConfig{MaxPages: 5, MaxChars: 10})

	text, err := extractor.Extract(buildPDF("abcdefghijklmnop", "never read"))
	require.NoError(t, err)
	assert.Equal(t, 10, len([]rune(text)))
	assert.NotContains(t, text, "never")
}

func TestExtractNoText(t *testing.T) {
	extractor := NewExtractor(&DocumentsConfig{MaxPages: 5, MaxChars: 3000})

	_, err := extractor.Extract(buildPDF(""))
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtractGarbage(t *testing.T) {
	extractor := NewExtractor(&DocumentsConfig{MaxPages: 5, MaxChars: 3000})

	_, err := extractor.Extract([]byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestExtractTooLarge(t *testing.T) {
	extractor := NewExtractor(&DocumentsConfig{MaxPages: 5, MaxChars: 3000, MaxBytes: 10})

	_, err := extractor.Extract(make([]byte, 11))

	var tooLarge *TooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, "PDF is too large: 11 B exceeds the 10 B limit", err.Error())
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.pdf":
			_, _ = w.Write([]byte("%PDF-bytes"))
		case "/big.pdf":
			_, _ = w.Write(bytes.Repeat([]byte("x"), 64))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), &DocumentsConfig{MaxBytes: 32})
	ctx := context.Background()

	data, err := fetcher.Fetch(ctx, server.URL+"/ok.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-bytes", string(data))

	_, err = fetcher.Fetch(ctx, server.URL+"/big.pdf")
	var tooLarge *TooLargeError
	assert.ErrorAs(t, err, &tooLarge)

	_, err = fetcher.Fetch(ctx, server.URL+"/missing.pdf")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
}
