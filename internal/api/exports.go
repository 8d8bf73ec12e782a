package api

import (
	"bytes"
	"io"
	"net/http"

	"github.com/p-n-ai/pai-syllabus/internal/export"
)

func (s *Server) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, ".pdf", export.PDFContentType, export.WritePDF)
}

func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, ".csv", export.CSVContentType, export.WriteCSV)
}

func (s *Server) handleDownloadXLSX(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, ".xlsx", export.XLSXContentType, export.WriteXLSX)
}

// download decodes a typed report and streams it back rendered by write.
func (s *Server) download(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(io.Writer, export.Table) error) {
	var report export.Report
	if err := decode(w, r, reportSchema, &report); err != nil {
		fail(w, r, err)
		return
	}
	table, err := report.Table()
	if err != nil {
		fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, table); err != nil {
		fail(w, r, err)
		return
	}
	attach(w, contentType, report.FileName(ext), buf.Bytes())
}
