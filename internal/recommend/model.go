package recommend

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"cinematch/internal/features"
	"cinematch/internal/movielens"
	"cinematch/internal/similarity"
	"cinematch/internal/vectorize"
)

// DefaultTopN is the result count used when callers do not choose one.
const DefaultTopN = 5

const maxSuggestions = 3

// Options tunes a build.
type Options struct {
	MinAvgRating      float64
	SimilarityWorkers int
	LowercaseTokens   bool
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{MinAvgRating: features.DefaultMinAvgRating, LowercaseTokens: true}
}

// BuildStats describes one build.
type BuildStats struct {
	Features      features.Stats
	RatingRows    int
	TagRows       int
	MovieRows     int
	Vocabulary    int
	EmptyProfiles int
	Duration      time.Duration
}

// Model is the immutable result of one build.
type Model struct {
	Profiles   []features.Profile
	Vocabulary []string
	Similarity *similarity.Matrix
	Stats      BuildStats

	index map[string]int
	folds map[string][]string
}

// Scored is one recommendation with its similarity score.
type Scored struct {
	MovieID int64   `json:"movie_id"`
	Title   string  `json:"title"`
	Genres  string  `json:"genres"`
	Score   float64 `json:"score"`
}

// Build runs the full pipeline over ds.
func Build(ctx context.Context, ds movielens.Dataset, opts Options) (*Model, error) {
	start := time.Now()

	profiles, fstats, err := features.Build(ctx, ds, features.Options{MinAvgRating: opts.MinAvgRating})
	if err != nil {
		return nil, fmt.Errorf("build profiles: %w", err)
	}

	docs := make([]string, len(profiles))
	for i, p := range profiles {
		docs[i] = p.Features
	}
	fm := vectorize.FitTransform(docs, vectorize.Options{Lowercase: opts.LowercaseTokens})

	sim, err := similarity.Compute(ctx, fm.Rows, similarity.Options{Workers: opts.SimilarityWorkers})
	if err != nil {
		return nil, err
	}

	empty := 0
	for _, row := range fm.Rows {
		if row.IsZero() {
			empty++
		}
	}

	m := &Model{
		Profiles:   profiles,
		Vocabulary: fm.Vocabulary,
		Similarity: sim,
		Stats: BuildStats{
			Features:      fstats,
			RatingRows:    len(ds.Ratings.Rows),
			TagRows:       len(ds.Tags.Rows),
			MovieRows:     len(ds.Movies.Rows),
			Vocabulary:    len(fm.Vocabulary),
			EmptyProfiles: empty,
		},
	}
	m.indexTitles()
	m.Stats.Duration = time.Since(start)
	return m, nil
}

func (m *Model) indexTitles() {
	fold := cases.Fold()
	m.index = make(map[string]int, len(m.Profiles))
	m.folds = make(map[string][]string, len(m.Profiles))
	for i, p := range m.Profiles {
		if _, ok := m.index[p.Title]; !ok {
			m.index[p.Title] = i
		}
		key := fold.String(strings.TrimSpace(p.Title))
		m.folds[key] = append(m.folds[key], p.Title)
	}
}

// Len returns the number of profiles.
func (m *Model) Len() int {
	return len(m.Profiles)
}

// Lookup returns the row index of the first profile whose title equals title.
func (m *Model) Lookup(title string) (int, bool) {
	idx, ok := m.index[title]
	return idx, ok
}

// Recommend returns up to topN titles most similar to title, best first.
func (m *Model) Recommend(title string, topN int) ([]string, error) {
	scored, err := m.RecommendScored(title, topN)
	if err != nil {
		return nil, err
	}
	titles := make([]string, len(scored))
	for i, s := range scored {
		titles[i] = s.Title
	}
	return titles, nil
}

// RecommendScored ranks every other profile by similarity to title,
// descending, with ties kept in profile order. The query row itself is never
// returned. A non-positive topN yields an empty result.
func (m *Model) RecommendScored(title string, topN int) ([]Scored, error) {
	idx, ok := m.Lookup(title)
	if !ok {
		return nil, &NotFoundError{Title: title, Suggestions: m.suggest(title)}
	}
	if topN <= 0 {
		return []Scored{}, nil
	}

	row := m.Similarity.Row(idx)
	order := make([]int, 0, len(row)-1)
	for j := range row {
		if j != idx {
			order = append(order, j)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(row[b], row[a])
	})
	if len(order) > topN {
		order = order[:topN]
	}

	out := make([]Scored, len(order))
	for i, j := range order {
		p := m.Profiles[j]
		out[i] = Scored{MovieID: p.MovieID, Title: p.Title, Genres: p.Genres, Score: row[j]}
	}
	return out, nil
}

func (m *Model) suggest(title string) []string {
	matches := m.folds[cases.Fold().String(strings.TrimSpace(title))]
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	return slices.Clone(matches)
}
