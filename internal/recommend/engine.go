package recommend

import (
	"context"
	"log/slog"
	"sync/atomic"

	"cinematch/internal/logging"
	"cinematch/internal/movielens"
)

// Engine holds the current Model and swaps it atomically on rebuild.
type Engine struct {
	opts   Options
	logger *slog.Logger
	model  atomic.Pointer[Model]
}

// NewEngine constructs an empty engine. Query it only after LoadAndProcess.
func NewEngine(opts Options, logger *slog.Logger) *Engine {
	return &Engine{
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "recommend"),
	}
}

// LoadAndProcess builds a new model from ds and replaces the current one.
// On error the previous model stays in place.
func (e *Engine) LoadAndProcess(ctx context.Context, ds movielens.Dataset) (*Model, error) {
	logger := logging.WithContext(ctx, e.logger)
	logger.Debug("model build started",
		logging.Int("rating_rows", len(ds.Ratings.Rows)),
		logging.Int("tag_rows", len(ds.Tags.Rows)),
		logging.Int("movie_rows", len(ds.Movies.Rows)),
		logging.Float64("min_avg_rating", e.opts.MinAvgRating))

	m, err := Build(ctx, ds, e.opts)
	if err != nil {
		logger.Error("model build failed", logging.Error(err))
		return nil, err
	}

	if m.Stats.EmptyProfiles > 0 {
		logging.WarnWithContext(logger, "profiles without tokens",
			"empty_feature_vectors",
			logging.Int("count", m.Stats.EmptyProfiles),
			logging.String(logging.FieldImpact, "these movies score 0 against every other movie"))
	}
	logger.Info("model built",
		logging.Int("profiles", m.Len()),
		logging.Int("vocabulary", m.Stats.Vocabulary),
		logging.Int("rating_groups", m.Stats.Features.RatingGroups),
		logging.Duration("duration", m.Stats.Duration))

	e.model.Store(m)
	return m, nil
}

// Model returns the current model, or nil before the first build.
func (e *Engine) Model() *Model {
	return e.model.Load()
}

// GetRecommendations queries the current model.
func (e *Engine) GetRecommendations(title string, topN int) ([]string, error) {
	m := e.model.Load()
	if m == nil {
		return nil, ErrNotBuilt
	}
	return m.Recommend(title, topN)
}

// GetScoredRecommendations queries the current model and keeps scores.
func (e *Engine) GetScoredRecommendations(title string, topN int) ([]Scored, error) {
	m := e.model.Load()
	if m == nil {
		return nil, ErrNotBuilt
	}
	return m.RecommendScored(title, topN)
}
