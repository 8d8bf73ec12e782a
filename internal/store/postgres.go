package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

const dbTimeout = 5 * time.Second

//go:embed schema.sql
var schemaSQL string

// PostgresStore is a PostgreSQL-backed Store. Generated artifacts are kept
// as JSONB documents; ids come from BIGSERIAL sequences.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the tables if needed and returns the store.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) AddSyllabus(doc syllabus.Document) (syllabus.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	structure, err := json.Marshal(doc.Structure)
	if err != nil {
		return syllabus.Document{}, fmt.Errorf("encode structure: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO syllabi (filename, raw_text, structure, uploaded_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id::text, uploaded_at`,
		doc.Filename,
		doc.Text,
		structure,
		stamp(doc.UploadedAt),
	).Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		return syllabus.Document{}, fmt.Errorf("insert syllabus: %w", err)
	}
	return doc, nil
}

func (s *PostgresStore) GetSyllabus(id string) (syllabus.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return syllabus.Document{}, fmt.Errorf("syllabus %s: %w", id, ErrNotFound)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id::text, filename, raw_text, structure, uploaded_at
		 FROM syllabi
		 WHERE id = $1`,
		n,
	)
	if err != nil {
		return syllabus.Document{}, fmt.Errorf("query syllabus: %w", err)
	}
	doc, err := pgx.CollectExactlyOneRow(rows, scanDocument)
	if errors.Is(err, pgx.ErrNoRows) {
		return syllabus.Document{}, fmt.Errorf("syllabus %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return syllabus.Document{}, fmt.Errorf("get syllabus: %w", err)
	}
	return doc, nil
}

func (s *PostgresStore) ListSyllabi() ([]syllabus.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT id::text, filename, raw_text, structure, uploaded_at
		 FROM syllabi
		 ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query syllabi: %w", err)
	}
	docs, err := pgx.CollectRows(rows, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("list syllabi: %w", err)
	}
	return docs, nil
}

func (s *PostgresStore) AddQuestions(set QuestionSet) (string, error) {
	qs, err := json.Marshal(set.Questions)
	if err != nil {
		return "", fmt.Errorf("encode questions: %w", err)
	}
	return s.insertReturningID("question set",
		`INSERT INTO question_sets (syllabus_id, questions, question_count, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id::text`,
		nullIfEmpty(set.SyllabusID), qs, len(set.Questions), stamp(set.CreatedAt),
	)
}

func (s *PostgresStore) AddLessonPlan(plan LessonPlan) (string, error) {
	entries, err := json.Marshal(plan.Entries)
	if err != nil {
		return "", fmt.Errorf("encode lesson plan entries: %w", err)
	}
	outline, err := json.Marshal(plan.Outline)
	if err != nil {
		return "", fmt.Errorf("encode lesson plan outline: %w", err)
	}
	return s.insertReturningID("lesson plan",
		`INSERT INTO lesson_plans (syllabus_id, entries, outline, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id::text`,
		nullIfEmpty(plan.SyllabusID), entries, outline, stamp(plan.CreatedAt),
	)
}

func (s *PostgresStore) AddCorrelation(c Correlation) (string, error) {
	m, err := json.Marshal(c.Mapping)
	if err != nil {
		return "", fmt.Errorf("encode mapping: %w", err)
	}
	cos, err := json.Marshal(c.CourseOutcomes)
	if err != nil {
		return "", fmt.Errorf("encode course outcomes: %w", err)
	}
	pos, err := json.Marshal(c.ProgramOutcomes)
	if err != nil {
		return "", fmt.Errorf("encode program outcomes: %w", err)
	}
	return s.insertReturningID("correlation",
		`INSERT INTO correlations (syllabus_id, mapping, course_outcomes, program_outcomes, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id::text`,
		nullIfEmpty(c.SyllabusID), m, cos, pos, stamp(c.CreatedAt),
	)
}

func (s *PostgresStore) AddSchedule(sc Schedule) (string, error) {
	entries, err := json.Marshal(sc.Entries)
	if err != nil {
		return "", fmt.Errorf("encode schedule: %w", err)
	}
	return s.insertReturningID("schedule",
		`INSERT INTO schedules (syllabus_id, entries, total_weeks, hours_per_week, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id::text`,
		nullIfEmpty(sc.SyllabusID), entries, sc.TotalWeeks, sc.HoursPerWeek, stamp(sc.CreatedAt),
	)
}

func (s *PostgresStore) AddMaterial(m Material) (Material, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	err := s.pool.QueryRow(ctx,
		`INSERT INTO course_materials (syllabus_id, file_name, category, path, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id::text, uploaded_at`,
		nullIfEmpty(m.SyllabusID),
		m.FileName,
		m.Category,
		m.Path,
		stamp(m.UploadedAt),
	).Scan(&m.ID, &m.UploadedAt)
	if err != nil {
		return Material{}, fmt.Errorf("insert material: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) GetMaterial(id string) (Material, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return Material{}, fmt.Errorf("material %s: %w", id, ErrNotFound)
	}

	var m Material
	var syllabusID *string
	err = s.pool.QueryRow(ctx,
		`SELECT id::text, syllabus_id, file_name, category, path, uploaded_at
		 FROM course_materials
		 WHERE id = $1`,
		n,
	).Scan(&m.ID, &syllabusID, &m.FileName, &m.Category, &m.Path, &m.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Material{}, fmt.Errorf("material %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Material{}, fmt.Errorf("get material: %w", err)
	}
	if syllabusID != nil {
		m.SyllabusID = *syllabusID
	}
	return m, nil
}

func (s *PostgresStore) Stats() (Stats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var st Stats
	err := s.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM syllabi),
		   (SELECT COALESCE(SUM(question_count), 0) FROM question_sets),
		   (SELECT COUNT(*) FROM lesson_plans),
		   (SELECT COUNT(*) FROM correlations),
		   (SELECT COUNT(*) FROM schedules),
		   (SELECT COUNT(*) FROM course_materials)`,
	).Scan(&st.Syllabi, &st.Questions, &st.LessonPlans, &st.Correlations, &st.Schedules, &st.Materials)
	if err != nil {
		return Stats{}, fmt.Errorf("count records: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id::text, filename, raw_text, structure, uploaded_at
		 FROM syllabi
		 ORDER BY id DESC
		 LIMIT $1`,
		recentLimit,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("query recent syllabi: %w", err)
	}
	recent, err := pgx.CollectRows(rows, scanDocument)
	if err != nil {
		return Stats{}, fmt.Errorf("recent syllabi: %w", err)
	}
	slices.Reverse(recent)
	st.Recent = recent
	return st, nil
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) insertReturningID(what, query string, args ...any) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var id string
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return "", fmt.Errorf("insert %s: %w", what, err)
	}
	return id, nil
}

func scanDocument(row pgx.CollectableRow) (syllabus.Document, error) {
	var doc syllabus.Document
	var structure []byte
	if err := row.Scan(&doc.ID, &doc.Filename, &doc.Text, &structure, &doc.UploadedAt); err != nil {
		return syllabus.Document{}, err
	}
	if err := json.Unmarshal(structure, &doc.Structure); err != nil {
		return syllabus.Document{}, fmt.Errorf("decode structure: %w", err)
	}
	return doc, nil
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
