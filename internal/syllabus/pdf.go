package syllabus

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFText returns the concatenated per-page text of a PDF. Any failure,
// including a panic inside the parser on malformed input, yields "".
func PDFText(data []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("pdf extraction panicked", "panic", r)
			text = ""
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		slog.Warn("pdf reader failed", "error", err)
		return ""
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			slog.Warn("pdf page extraction failed", "page", i, "error", err)
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String()
}
