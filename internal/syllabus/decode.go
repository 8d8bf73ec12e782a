package syllabus

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText converts uploaded plain-text bytes to a string. A byte-order mark
// selects UTF-8 or UTF-16; otherwise valid UTF-8 is kept as is, input with no
// multi-byte sequences at all is read as Windows-1252, and anything else has
// its undecodable bytes dropped.
func DecodeText(b []byte) string {
	if hasBOM(b) {
		out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), b)
		if err == nil {
			return string(out)
		}
		slog.Warn("BOM decoding failed, falling back", "error", err)
	}

	if utf8.Valid(b) {
		return string(b)
	}

	if !hasMultibyte(b) {
		out, err := charmap.Windows1252.NewDecoder().Bytes(b)
		if err == nil {
			return string(out)
		}
	}
	return strings.ToValidUTF8(string(b), "")
}

// TextFromUpload picks the extraction path for an uploaded file: PDF content
// goes through PDFText, everything else through DecodeText.
func TextFromUpload(filename string, data []byte) string {
	if IsPDF(filename, data) {
		return PDFText(data)
	}
	return DecodeText(data)
}

// IsPDF reports whether the upload is a PDF by extension or magic bytes.
func IsPDF(filename string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return true
	}
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

func hasBOM(b []byte) bool {
	return bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(b, []byte{0xFE, 0xFF}) ||
		bytes.HasPrefix(b, []byte{0xFF, 0xFE})
}

func hasMultibyte(b []byte) bool {
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r != utf8.RuneError && size > 1 {
			return true
		}
		b = b[size:]
	}
	return false
}
