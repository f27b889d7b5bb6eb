package config

const (
	defaultDataDir           = "~/.local/share/cinematch/data"
	defaultRatingsFile       = "ratings.csv"
	defaultTagsFile          = "tags.csv"
	defaultMoviesFile        = "movies.csv"
	defaultStateDir          = "~/.local/share/cinematch"
	defaultLogDir            = "~/.local/share/cinematch/logs"
	defaultAPIBind           = "127.0.0.1:7490"
	defaultMinAvgRating      = 3.5
	defaultTopN              = 5
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	maxRatingValue           = 5.0
	defaultHistoryEnabled    = true
	defaultLowercaseTokens   = true
	defaultSimilarityWorkers = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Recommend: Recommend{
			MinAvgRating:      defaultMinAvgRating,
			TopN:              defaultTopN,
			SimilarityWorkers: defaultSimilarityWorkers,
			LowercaseTokens:   defaultLowercaseTokens,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
			APIBind:  defaultAPIBind,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
