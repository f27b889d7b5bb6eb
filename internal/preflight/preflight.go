package preflight

import (
	"context"

	"cinematch/internal/config"
	"cinematch/internal/movielens"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDataset(ctx, "Ratings dataset", movielens.DatasetRatings, cfg.Datasets.RatingsPath),
		CheckDataset(ctx, "Tags dataset", movielens.DatasetTags, cfg.Datasets.TagsPath),
		CheckDataset(ctx, "Movies dataset", movielens.DatasetMovies, cfg.Datasets.MoviesPath),
		CheckStateDirectory("State directory", cfg.Paths.StateDir),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckStateDirectory("Log directory", cfg.Paths.LogDir))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
