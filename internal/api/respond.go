package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/p-n-ai/pai-syllabus/internal/ai"
	"github.com/p-n-ai/pai-syllabus/internal/export"
	"github.com/p-n-ai/pai-syllabus/internal/store"
)

// errModelFailed marks a failed call on the model-backed path.
var errModelFailed = errors.New("model generation failed")

// httpError carries a status and a message meant for the client.
type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &httpError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func notFound(msg string) error {
	return &httpError{status: http.StatusNotFound, msg: msg}
}

// modelFailure tags err as a model failure unless it already has a more
// specific classification.
func modelFailure(err error) error {
	if err == nil ||
		errors.Is(err, ai.ErrNoProvider) ||
		errors.Is(err, ai.ErrBudgetExceeded) ||
		errors.Is(err, errModelFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", errModelFailed, err)
}

// classify maps an error to a status code and a client-safe message.
func classify(err error) (int, string) {
	var he *httpError
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &he):
		return he.status, he.msg
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, export.ErrEmpty), errors.Is(err, export.ErrUnknownType):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, store.ErrTooLarge), errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge, "file too large"
	case errors.Is(err, ai.ErrNoProvider):
		return http.StatusServiceUnavailable, ai.ErrNoProvider.Error()
	case errors.Is(err, ai.ErrBudgetExceeded):
		return http.StatusServiceUnavailable, ai.ErrBudgetExceeded.Error()
	case errors.Is(err, errModelFailed), errors.Is(err, ai.ErrUnavailable):
		return http.StatusBadGateway, errModelFailed.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail writes err as a JSON error. Server-side failures are logged with
// the underlying error, which the client never sees.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	writeError(w, status, msg)
}

// attach writes data as a file download.
func attach(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", contentDisposition(filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write download", "filename", filename, "error", err)
	}
}
