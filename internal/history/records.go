package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Build is one recorded model build.
type Build struct {
	ID            string        `json:"id"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
	RatingsPath   string        `json:"ratings_path,omitempty"`
	TagsPath      string        `json:"tags_path,omitempty"`
	MoviesPath    string        `json:"movies_path,omitempty"`
	MinAvgRating  float64       `json:"min_avg_rating"`
	RatingRows    int           `json:"rating_rows"`
	TagRows       int           `json:"tag_rows"`
	MovieRows     int           `json:"movie_rows"`
	Profiles      int           `json:"profiles"`
	Vocabulary    int           `json:"vocabulary"`
	EmptyProfiles int           `json:"empty_profiles"`
}

// Query is one recorded recommendation request.
type Query struct {
	ID        int64     `json:"id"`
	BuildID   string    `json:"build_id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	TopN      int       `json:"top_n"`
	Found     bool      `json:"found"`
	Results   []string  `json:"results,omitempty"`
}

const (
	buildColumns = "id, started_at, duration_ms, ratings_path, tags_path, movies_path, min_avg_rating, rating_rows, tag_rows, movie_rows, profiles, vocabulary, empty_profiles"
	queryColumns = "id, build_id, created_at, title, top_n, found, results_json"
)

// NewRunID returns a fresh build identifier.
func NewRunID() string {
	return uuid.NewString()
}

// RecordBuild stores b. An empty ID is replaced with a new run ID and a zero
// StartedAt with the current time; the stored record is returned.
func (s *Store) RecordBuild(ctx context.Context, b Build) (Build, error) {
	if b.ID == "" {
		b.ID = NewRunID()
	}
	if b.StartedAt.IsZero() {
		b.StartedAt = time.Now()
	}
	b.StartedAt = b.StartedAt.UTC()

	_, err := s.exec(ctx,
		`INSERT INTO builds (`+buildColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.StartedAt.Format(time.RFC3339Nano),
		b.Duration.Milliseconds(),
		nullableString(b.RatingsPath),
		nullableString(b.TagsPath),
		nullableString(b.MoviesPath),
		b.MinAvgRating,
		b.RatingRows,
		b.TagRows,
		b.MovieRows,
		b.Profiles,
		b.Vocabulary,
		b.EmptyProfiles,
	)
	if err != nil {
		return Build{}, fmt.Errorf("insert build: %w", err)
	}
	b.Duration = time.Duration(b.Duration.Milliseconds()) * time.Millisecond
	return b, nil
}

// RecordQuery stores q against an existing build.
func (s *Store) RecordQuery(ctx context.Context, q Query) (Query, error) {
	if q.BuildID == "" {
		return Query{}, fmt.Errorf("record query: build id is required")
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	q.CreatedAt = q.CreatedAt.UTC()

	var results any
	if len(q.Results) > 0 {
		encoded, err := json.Marshal(q.Results)
		if err != nil {
			return Query{}, fmt.Errorf("marshal results: %w", err)
		}
		results = string(encoded)
	}

	res, err := s.exec(ctx,
		`INSERT INTO queries (build_id, created_at, title, top_n, found, results_json) VALUES (?, ?, ?, ?, ?, ?)`,
		q.BuildID,
		q.CreatedAt.Format(time.RFC3339Nano),
		q.Title,
		q.TopN,
		boolToInt(q.Found),
		results,
	)
	if err != nil {
		return Query{}, fmt.Errorf("insert query: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Query{}, fmt.Errorf("last insert id: %w", err)
	}
	q.ID = id
	return q, nil
}

// ListBuilds returns up to limit builds, newest first. A non-positive limit
// returns every build.
func (s *Store) ListBuilds(ctx context.Context, limit int) ([]Build, error) {
	query := `SELECT ` + buildColumns + ` FROM builds ORDER BY rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var out []Build
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return out, nil
}

// LatestBuild returns the most recent build, or nil when none is recorded.
func (s *Store) LatestBuild(ctx context.Context) (*Build, error) {
	builds, err := s.ListBuilds(ctx, 1)
	if err != nil || len(builds) == 0 {
		return nil, err
	}
	return &builds[0], nil
}

// ListQueries returns up to limit queries, newest first. A non-empty buildID
// restricts the result to one build.
func (s *Store) ListQueries(ctx context.Context, buildID string, limit int) ([]Query, error) {
	query := `SELECT ` + queryColumns + ` FROM queries`
	var args []any
	if buildID != "" {
		query += ` WHERE build_id = ?`
		args = append(args, buildID)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	defer rows.Close()

	var out []Query
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queries: %w", err)
	}
	return out, nil
}

func scanBuild(scanner interface{ Scan(dest ...any) error }) (Build, error) {
	var (
		b          Build
		startedRaw string
		durationMs int64
		ratings    sql.NullString
		tags       sql.NullString
		movies     sql.NullString
	)
	if err := scanner.Scan(
		&b.ID,
		&startedRaw,
		&durationMs,
		&ratings,
		&tags,
		&movies,
		&b.MinAvgRating,
		&b.RatingRows,
		&b.TagRows,
		&b.MovieRows,
		&b.Profiles,
		&b.Vocabulary,
		&b.EmptyProfiles,
	); err != nil {
		return Build{}, fmt.Errorf("scan build: %w", err)
	}
	b.StartedAt = parseTime(startedRaw)
	b.Duration = time.Duration(durationMs) * time.Millisecond
	b.RatingsPath = ratings.String
	b.TagsPath = tags.String
	b.MoviesPath = movies.String
	return b, nil
}

func scanQuery(scanner interface{ Scan(dest ...any) error }) (Query, error) {
	var (
		q          Query
		createdRaw string
		found      int64
		results    sql.NullString
	)
	if err := scanner.Scan(&q.ID, &q.BuildID, &createdRaw, &q.Title, &q.TopN, &found, &results); err != nil {
		return Query{}, fmt.Errorf("scan query: %w", err)
	}
	q.CreatedAt = parseTime(createdRaw)
	q.Found = found != 0
	if results.Valid && results.String != "" {
		if err := json.Unmarshal([]byte(results.String), &q.Results); err != nil {
			return Query{}, fmt.Errorf("decode query results: %w", err)
		}
	}
	return q, nil
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
