package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/p-n-ai/pai-syllabus/internal/store"
)

const defaultCategory = "Lecture Slides"

func (s *Server) handleUploadMaterial(w http.ResponseWriter, r *http.Request) {
	if s.files == nil {
		writeError(w, http.StatusServiceUnavailable, "material storage is not configured")
		return
	}
	file, header, err := s.formFile(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	defer file.Close()

	category := strings.TrimSpace(r.FormValue("category"))
	if category == "" {
		category = defaultCategory
	}

	path, err := s.files.Save(header.Filename, file)
	if err != nil {
		fail(w, r, err)
		return
	}
	mat, err := s.store.AddMaterial(store.Material{
		FileName:   store.SafeFilename(header.Filename),
		Category:   category,
		SyllabusID: strings.TrimSpace(r.FormValue("syllabus_id")),
		Path:       path,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	slog.Info("course material uploaded", "material_id", mat.ID, "category", mat.Category)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "File uploaded successfully",
		"material": mat,
	})
}

func (s *Server) handleDownloadMaterial(w http.ResponseWriter, r *http.Request) {
	mat, err := s.store.GetMaterial(r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		fail(w, r, notFound("Material not found"))
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	if s.files == nil {
		fail(w, r, notFound("Material not found"))
		return
	}

	f, err := s.files.Open(mat.Path)
	if errors.Is(err, store.ErrNotFound) {
		fail(w, r, notFound("Material not found"))
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition", contentDisposition(mat.FileName))
	http.ServeContent(w, r, mat.FileName, mat.UploadedAt, f)
}
