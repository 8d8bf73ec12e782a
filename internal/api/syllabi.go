package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/p-n-ai/pai-syllabus/internal/store"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

// multipartOverhead is the room left for form fields around an uploaded file.
const multipartOverhead = 1 << 20

type uploadSyllabusResponse struct {
	Message         string              `json:"message"`
	SyllabusID      string              `json:"syllabus_id"`
	Topics          []syllabus.Topic    `json:"topics"`
	Units           []string            `json:"units"`
	CourseOutcomes  syllabus.OutcomeMap `json:"course_outcomes"`
	ProgramOutcomes syllabus.OutcomeMap `json:"program_outcomes"`
	Filename        string              `json:"filename"`
}

func (s *Server) handleUploadSyllabus(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.formFile(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		fail(w, r, fmt.Errorf("reading upload: %w", err))
		return
	}

	filename := store.SafeFilename(header.Filename)
	doc, err := s.store.AddSyllabus(syllabus.NewDocument(filename, syllabus.TextFromUpload(filename, data)))
	if err != nil {
		fail(w, r, err)
		return
	}
	slog.Info("syllabus uploaded",
		"syllabus_id", doc.ID,
		"filename", filename,
		"topics", len(doc.Topics),
		"units", len(doc.Units),
	)

	writeJSON(w, http.StatusOK, uploadSyllabusResponse{
		Message:         "Syllabus processed successfully",
		SyllabusID:      doc.ID,
		Topics:          doc.Topics,
		Units:           doc.Units,
		CourseOutcomes:  doc.CourseOutcomes,
		ProgramOutcomes: doc.ProgramOutcomes,
		Filename:        filename,
	})
}

// formFile returns the multipart "file" field, enforcing the upload limit.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, nil, err
		}
		return nil, nil, badRequest("No file part")
	}
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, badRequest("No file part")
	}
	if err != nil {
		return nil, nil, badRequest("invalid upload: %v", err)
	}
	if header.Filename == "" {
		file.Close()
		return nil, nil, badRequest("No selected file")
	}
	if header.Size > s.maxUpload {
		file.Close()
		return nil, nil, store.ErrTooLarge
	}
	return file, header, nil
}

// lookupSyllabus loads a stored syllabus, reporting unknown ids as 404.
func (s *Server) lookupSyllabus(id recordID) (syllabus.Document, error) {
	if id == "" {
		return syllabus.Document{}, badRequest("Missing 'syllabus_id' field")
	}
	doc, err := s.store.GetSyllabus(string(id))
	if errors.Is(err, store.ErrNotFound) {
		return syllabus.Document{}, notFound("Syllabus not found")
	}
	return doc, err
}

type syllabusSummary struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadDate time.Time `json:"upload_date"`
	TopicCount int       `json:"topic_count"`
	UnitCount  int       `json:"unit_count"`
}

func (s *Server) handleListSyllabi(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListSyllabi()
	if err != nil {
		fail(w, r, err)
		return
	}
	list := make([]syllabusSummary, 0, len(docs))
	for _, d := range docs {
		list = append(list, syllabusSummary{
			ID:         d.ID,
			Filename:   d.Filename,
			UploadDate: d.UploadedAt,
			TopicCount: len(d.Topics),
			UnitCount:  len(d.Units),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"syllabi": list})
}

type activity struct {
	Action string    `json:"action"`
	Time   time.Time `json:"time"`
	ID     string    `json:"id"`
}

type dashboardStats struct {
	TotalSyllabi      int        `json:"totalSyllabi"`
	TotalQuestions    int        `json:"totalQuestions"`
	TotalLessonPlans  int        `json:"totalLessonPlans"`
	TotalCorrelations int        `json:"totalCorrelations"`
	TotalSchedules    int        `json:"totalSchedules"`
	TotalMaterials    int        `json:"totalMaterials"`
	RecentActivities  []activity `json:"recentActivities"`
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Stats()
	if err != nil {
		fail(w, r, err)
		return
	}
	recent := make([]activity, 0, len(st.Recent))
	for _, d := range st.Recent {
		name := d.Filename
		if name == "" {
			name = "Untitled"
		}
		recent = append(recent, activity{
			Action: "Syllabus uploaded: " + name,
			Time:   d.UploadedAt,
			ID:     d.ID,
		})
	}
	writeJSON(w, http.StatusOK, dashboardStats{
		TotalSyllabi:      st.Syllabi,
		TotalQuestions:    st.Questions,
		TotalLessonPlans:  st.LessonPlans,
		TotalCorrelations: st.Correlations,
		TotalSchedules:    st.Schedules,
		TotalMaterials:    st.Materials,
		RecentActivities:  recent,
	})
}
