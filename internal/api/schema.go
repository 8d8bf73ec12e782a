package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const (
	maxJSONBytes = 8 << 20
	// rootField is how gojsonschema names the document itself.
	rootField = "(root)"
)

// Fragments shared by the request schemas.
const (
	idSchema      = `{"type": ["string", "integer"]}`
	modeSchema    = `{"type": "string", "enum": ["", "template", "model"]}`
	topicsSchema  = `{"type": "array", "items": {"type": "object", "properties": {"title": {"type": "string"}, "content": {"type": "string"}}}}`
	outcomeSchema = `{"type": "object", "additionalProperties": {"type": "string"}}`
)

var (
	questionsSchema = mustSchema(`{
		"type": "object",
		"required": ["taxonomies", "difficulty"],
		"properties": {
			"topics": ` + topicsSchema + `,
			"taxonomies": {"type": "array", "items": {"type": "string"}},
			"difficulty": {"type": "string", "minLength": 1},
			"syllabus_id": ` + idSchema + `,
			"mode": ` + modeSchema + `
		}
	}`)

	lessonPlanSchema = mustSchema(`{
		"type": "object",
		"properties": {
			"syllabus_id": ` + idSchema + `,
			"topics": ` + topicsSchema + `,
			"units": {"type": "array", "items": {"type": "string"}},
			"weeks": {"type": "integer", "minimum": 1, "maximum": 104},
			"daysPerWeek": {"type": "integer", "minimum": 1, "maximum": 7},
			"unitWeightage": {"type": "object", "additionalProperties": {"type": "number"}},
			"mode": ` + modeSchema + `
		}
	}`)

	correlationSchema = mustSchema(`{
		"type": "object",
		"properties": {
			"syllabus_id": ` + idSchema + `,
			"courseOutcomes": ` + outcomeSchema + `,
			"programOutcomes": ` + outcomeSchema + `
		}
	}`)

	scheduleSchema = mustSchema(`{
		"type": "object",
		"required": ["syllabus_id"],
		"properties": {
			"syllabus_id": ` + idSchema + `,
			"total_weeks": {"type": "integer", "minimum": 1, "maximum": 104},
			"hours_per_week": {"type": "integer", "minimum": 1, "maximum": 40}
		}
	}`)

	syllabusRefSchema = mustSchema(`{
		"type": "object",
		"required": ["syllabus_id"],
		"properties": {
			"syllabus_id": ` + idSchema + `
		}
	}`)

	reportSchema = mustSchema(`{
		"type": "object",
		"required": ["reportType"],
		"properties": {
			"reportType": {"type": "string"},
			"filename": {"type": "string"},
			"questions": {"type": "array", "items": {"type": "object"}},
			"lessonPlan": {"type": "array", "items": {"type": "object"}},
			"schedule": {"type": "array", "items": {"type": "object"}},
			"mapping": {"type": "object", "additionalProperties": {"type": "object", "additionalProperties": {"type": "integer"}}},
			"courseOutcomes": ` + outcomeSchema + `,
			"programOutcomes": ` + outcomeSchema + `
		}
	}`)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("api: invalid request schema: %v", err))
	}
	return s
}

// decode reads a JSON body, validates it against schema and unmarshals it
// into v. Every failure is a bad request.
func decode(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return badRequest("Missing request data")
	}

	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return badRequest("invalid JSON: %v", err)
	}
	if !res.Valid() {
		return badRequest("%s", describe(res.Errors()))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return badRequest("invalid request: %v", err)
	}
	return nil
}

func describe(errs []gojsonschema.ResultError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Field() == rootField {
			msgs = append(msgs, e.Description())
			continue
		}
		msgs = append(msgs, e.Field()+": "+e.Description())
	}
	return strings.Join(msgs, "; ")
}

// recordID is an id sent either as a JSON string or as a number.
type recordID string

func (id *recordID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = recordID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = recordID(n.String())
	return nil
}
