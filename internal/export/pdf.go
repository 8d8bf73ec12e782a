package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// PDFContentType is the media type written by the PDF writers.
const PDFContentType = "application/pdf"

const (
	pdfFont       = "Helvetica"
	pdfLineHeight = 5.0
)

// WritePDF renders the table on A4 pages. Grid tables are drawn as a
// matrix; others as one block of labelled fields per row.
func WritePDF(w io.Writer, t Table) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(t.Title, true)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 14)
	pdf.CellFormat(0, 10, tr(t.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if t.Grid {
		writeGrid(pdf, tr, t)
	} else {
		writeRecords(pdf, tr, t)
	}

	if len(t.Notes) > 0 {
		pdf.Ln(4)
		pdf.SetFont(pdfFont, "", 9)
		for _, n := range t.Notes {
			pdf.MultiCell(0, pdfLineHeight, tr(n), "", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func writeRecords(pdf *fpdf.Fpdf, tr func(string) string, t Table) {
	for i, row := range t.Rows {
		pdf.SetFont(pdfFont, "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d.", i+1), "", 1, "L", false, 0, "")
		for j, cell := range row {
			if j >= len(t.Header) || cell == "" {
				continue
			}
			pdf.SetFont(pdfFont, "B", 9)
			pdf.Write(pdfLineHeight, tr(Label(t.Header[j])+": "))
			pdf.SetFont(pdfFont, "", 9)
			pdf.Write(pdfLineHeight, tr(cell))
			pdf.Ln(pdfLineHeight)
		}
		pdf.Ln(2)
	}
}

func writeGrid(pdf *fpdf.Fpdf, tr func(string) string, t Table) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	first := 24.0
	cols := max(1, len(t.Header)-1)
	cellW := (pageW - left - right - first) / float64(cols)

	pdf.SetFont(pdfFont, "B", 8)
	for j, h := range t.Header {
		width := cellW
		if j == 0 {
			width = first
			h = "CO / PO"
		}
		pdf.CellFormat(width, 7, tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(pdfFont, "", 8)
	for _, row := range t.Rows {
		for j, cell := range row {
			width := cellW
			if j == 0 {
				width = first
			}
			pdf.CellFormat(width, 7, tr(cell), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// WriteDocument renders a titled prose document, such as generated course
// material. Markdown emphasis markers are dropped; lines starting with '#'
// are set as headings.
func WriteDocument(w io.Writer, title, body string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 14)
	pdf.MultiCell(0, 8, tr(title), "", "L", false)
	pdf.Ln(3)

	for _, line := range strings.Split(body, "\n") {
		line = strings.ReplaceAll(strings.TrimRight(line, " \t\r"), "**", "")
		switch {
		case strings.TrimSpace(line) == "":
			pdf.Ln(pdfLineHeight / 2)
		case strings.HasPrefix(line, "#"):
			pdf.SetFont(pdfFont, "B", 11)
			pdf.MultiCell(0, 6, tr(strings.TrimSpace(strings.TrimLeft(line, "#"))), "", "L", false)
		default:
			pdf.SetFont(pdfFont, "", 10)
			pdf.MultiCell(0, pdfLineHeight, tr(line), "", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
