package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Recommendation is one ranked title.
type Recommendation struct {
	Title   string   `json:"title"`
	MovieID int64    `json:"movieId,omitempty"`
	Genres  string   `json:"genres,omitempty"`
	Score   *float64 `json:"score,omitempty"`
}

// RecommendationsResponse wraps the ranked titles for one query.
type RecommendationsResponse struct {
	Query           string           `json:"query"`
	TopN            int              `json:"topN"`
	BuildID         string           `json:"buildId,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Profile describes one movie profile.
type Profile struct {
	MovieID  int64  `json:"movieId"`
	Title    string `json:"title"`
	Genres   string `json:"genres"`
	Features string `json:"features"`
}

// ProfilesResponse wraps a page of profiles.
type ProfilesResponse struct {
	Total    int       `json:"total"`
	Profiles []Profile `json:"profiles"`
}

// BuildSummary reports the result of one model build.
type BuildSummary struct {
	ID              string  `json:"id,omitempty"`
	StartedAt       string  `json:"startedAt,omitempty"`
	DurationMillis  int64   `json:"durationMs"`
	MinAvgRating    float64 `json:"minAvgRating"`
	RatingRows      int     `json:"ratingRows"`
	TagRows         int     `json:"tagRows"`
	MovieRows       int     `json:"movieRows"`
	TaggedRows      int     `json:"taggedRows,omitempty"`
	RatingGroups    int     `json:"ratingGroups,omitempty"`
	QualifiedMovies int     `json:"qualifiedMovies,omitempty"`
	Profiles        int     `json:"profiles"`
	Vocabulary      int     `json:"vocabulary"`
	EmptyProfiles   int     `json:"emptyProfiles"`
}

// QuerySummary reports one recorded recommendation query.
type QuerySummary struct {
	ID        int64    `json:"id"`
	BuildID   string   `json:"buildId"`
	CreatedAt string   `json:"createdAt,omitempty"`
	Title     string   `json:"title"`
	TopN      int      `json:"topN"`
	Found     bool     `json:"found"`
	Results   []string `json:"results,omitempty"`
}

// HealthResponse reports server readiness.
type HealthResponse struct {
	Status   string        `json:"status"`
	Ready    bool          `json:"ready"`
	PID      int           `json:"pid"`
	LockPath string        `json:"lockPath,omitempty"`
	Build    *BuildSummary `json:"build,omitempty"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error       string   `json:"error"`
	Kind        string   `json:"kind,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}
