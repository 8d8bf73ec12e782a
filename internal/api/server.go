// Package api serves the syllabus toolkit over HTTP. Every endpoint takes
// and returns JSON except uploads (multipart) and downloads (file bytes).
package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/p-n-ai/pai-syllabus/internal/ai"
	"github.com/p-n-ai/pai-syllabus/internal/catalog"
	"github.com/p-n-ai/pai-syllabus/internal/generator"
	"github.com/p-n-ai/pai-syllabus/internal/platform/random"
	"github.com/p-n-ai/pai-syllabus/internal/store"
)

const (
	defaultMaxUploadBytes = 32 << 20
	readyTimeout          = 2 * time.Second
)

// Check reports whether a backing service is reachable.
type Check func(ctx context.Context) error

// Deps are the collaborators a Server needs. Store and Files are required.
type Deps struct {
	Store   store.Store
	Files   *store.FileStore
	Catalog *catalog.Catalog
	Rand    random.Source
	// Models backs the "model" generation mode. Nil when no provider is
	// configured.
	Models ai.Completer
	// Checks are run by /readyz, keyed by service name.
	Checks              map[string]Check
	MaxUploadBytes      int64
	AllowedOrigins      []string
	MaterialParallelism int
}

// Server holds the handlers' shared state.
type Server struct {
	store       store.Store
	files       *store.FileStore
	cat         *catalog.Catalog
	rng         random.Source
	models      ai.Completer
	gen         *generator.Generator
	checks      map[string]Check
	maxUpload   int64
	origins     []string
	parallelism int
}

// New builds a Server from d, filling in defaults.
func New(d Deps) *Server {
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if d.Rand == nil {
		d.Rand = random.Default()
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = defaultMaxUploadBytes
	}
	rng := random.Synchronized(d.Rand)
	return &Server{
		store:       d.Store,
		files:       d.Files,
		cat:         d.Catalog,
		rng:         rng,
		models:      d.Models,
		gen:         generator.New(d.Store, d.Catalog, rng),
		checks:      d.Checks,
		maxUpload:   d.MaxUploadBytes,
		origins:     d.AllowedOrigins,
		parallelism: d.MaterialParallelism,
	}
}

// Handler returns the routed handler wrapped in CORS, panic recovery and
// request logging.
func (s *Server) Handler() http.Handler {
	return logRequests(recoverPanics(allowCORS(s.origins, s.routes())))
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("POST /api/upload-syllabus", s.handleUploadSyllabus)
	mux.HandleFunc("GET /api/syllabi", s.handleListSyllabi)
	mux.HandleFunc("GET /api/dashboard-stats", s.handleDashboardStats)

	mux.HandleFunc("POST /api/generate-questions", s.handleGenerateQuestions)
	mux.HandleFunc("POST /api/generate-lesson-plan", s.handleGenerateLessonPlan)
	mux.HandleFunc("POST /api/generate-copo-mapping", s.handleGenerateCorrelation)
	mux.HandleFunc("POST /api/generate-schedule", s.handleGenerateSchedule)
	mux.HandleFunc("POST /api/generate-all-materials", s.handleGenerateAll)
	mux.HandleFunc("GET /api/ws/generate-all", s.handleGenerateAllWS)
	mux.HandleFunc("POST /api/generate-course-material", s.handleCourseMaterial)

	mux.HandleFunc("POST /api/upload-course-material", s.handleUploadMaterial)
	mux.HandleFunc("GET /api/download-material/{id}", s.handleDownloadMaterial)

	mux.HandleFunc("POST /api/download-pdf", s.handleDownloadPDF)
	mux.HandleFunc("POST /api/download-csv", s.handleDownloadCSV)
	mux.HandleFunc("POST /api/download-xlsx", s.handleDownloadXLSX)
	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  name + ": " + err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
