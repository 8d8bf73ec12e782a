package api

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/pai-syllabus/internal/generator"
)

// Event types pushed over the generate-all socket.
const (
	eventProgress = "progress"
	eventDone     = "done"
	eventError    = "error"
)

type wsEvent struct {
	Type       string            `json:"type"`
	Stage      string            `json:"stage,omitempty"`
	Count      int               `json:"count,omitempty"`
	ID         string            `json:"id,omitempty"`
	SyllabusID string            `json:"syllabus_id,omitempty"`
	Materials  *materialsSummary `json:"materials,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// handleGenerateAllWS runs generate-all and pushes one event per finished
// stage, then a done or error event.
func (s *Server) handleGenerateAllWS(w http.ResponseWriter, r *http.Request) {
	doc, err := s.lookupSyllabus(recordID(r.URL.Query().Get("syllabus_id")))
	if err != nil {
		fail(w, r, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: originPatterns(s.origins)})
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	// Incoming messages are not expected; CloseRead cancels ctx when the
	// client goes away.
	ctx := conn.CloseRead(r.Context())

	res, err := s.gen.GenerateAll(ctx, doc, func(p generator.Progress) {
		ev := wsEvent{Type: eventProgress, Stage: p.Stage, Count: p.Count, ID: p.ID}
		if err := wsjson.Write(ctx, conn, ev); err != nil {
			slog.Debug("progress event not delivered", "syllabus_id", doc.ID, "error", err)
		}
	})
	if err != nil {
		slog.Error("generate-all failed", "syllabus_id", doc.ID, "error", err)
		_ = wsjson.Write(ctx, conn, wsEvent{Type: eventError, SyllabusID: doc.ID, Error: "generation failed"})
		conn.Close(websocket.StatusInternalError, "generation failed")
		return
	}

	summary := summarize(res)
	if err := wsjson.Write(ctx, conn, wsEvent{Type: eventDone, SyllabusID: doc.ID, Materials: &summary}); err != nil {
		slog.Debug("done event not delivered", "syllabus_id", doc.ID, "error", err)
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

// originPatterns turns configured CORS origins into the host patterns
// websocket.Accept matches against.
func originPatterns(origins []string) []string {
	var out []string
	for _, o := range origins {
		if o == "*" {
			out = append(out, "*")
			continue
		}
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}
		out = append(out, u.Host)
	}
	return out
}
