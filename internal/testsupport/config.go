package testsupport

import (
	"path/filepath"
	"testing"

	"cinematch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Dataset paths point into the temp directory but no files are written unless
// WithSampleDataset is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	dataDir := filepath.Join(base, "data")
	cfgVal.Datasets.RatingsPath = filepath.Join(dataDir, "ratings.csv")
	cfgVal.Datasets.TagsPath = filepath.Join(dataDir, "tags.csv")
	cfgVal.Datasets.MoviesPath = filepath.Join(dataDir, "movies.csv")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "state", "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithSampleDataset writes SampleRatingsCSV, SampleTagsCSV and SampleMoviesCSV
// to the configured dataset paths.
func WithSampleDataset() ConfigOption {
	return func(b *configBuilder) {
		WriteDataset(b.t, b.cfg, SampleRatingsCSV, SampleTagsCSV, SampleMoviesCSV)
	}
}

// WithMinAvgRating overrides the rating threshold.
func WithMinAvgRating(value float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Recommend.MinAvgRating = value
	}
}

// WithHistoryDisabled turns off the SQLite history log.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
