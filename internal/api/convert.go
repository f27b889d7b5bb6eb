package api

import (
	"time"

	"cinematch/internal/features"
	"cinematch/internal/history"
	"cinematch/internal/recommend"
)

// FromScored converts ranked engine results. Scores are carried only when
// withScores is set.
func FromScored(scored []recommend.Scored, withScores bool) []Recommendation {
	out := make([]Recommendation, len(scored))
	for i, s := range scored {
		rec := Recommendation{Title: s.Title}
		if withScores {
			score := s.Score
			rec.MovieID = s.MovieID
			rec.Genres = s.Genres
			rec.Score = &score
		}
		out[i] = rec
	}
	return out
}

// FromProfile converts a feature profile.
func FromProfile(p features.Profile) Profile {
	return Profile{MovieID: p.MovieID, Title: p.Title, Genres: p.Genres, Features: p.Features}
}

// FromProfiles converts up to limit profiles. A non-positive limit keeps all.
func FromProfiles(profiles []features.Profile, limit int) ProfilesResponse {
	n := len(profiles)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Profile, n)
	for i := 0; i < n; i++ {
		out[i] = FromProfile(profiles[i])
	}
	return ProfilesResponse{Total: len(profiles), Profiles: out}
}

// FromBuildStats converts in-memory build statistics.
func FromBuildStats(stats recommend.BuildStats, minAvgRating float64) BuildSummary {
	return BuildSummary{
		DurationMillis:  stats.Duration.Milliseconds(),
		MinAvgRating:    minAvgRating,
		RatingRows:      stats.RatingRows,
		TagRows:         stats.TagRows,
		MovieRows:       stats.MovieRows,
		TaggedRows:      stats.Features.TaggedRows,
		RatingGroups:    stats.Features.RatingGroups,
		QualifiedMovies: stats.Features.QualifiedMovies,
		Profiles:        stats.Features.Profiles,
		Vocabulary:      stats.Vocabulary,
		EmptyProfiles:   stats.EmptyProfiles,
	}
}

// FromHistoryBuild converts a persisted build record.
func FromHistoryBuild(b history.Build) BuildSummary {
	return BuildSummary{
		ID:             b.ID,
		StartedAt:      formatTime(b.StartedAt),
		DurationMillis: b.Duration.Milliseconds(),
		MinAvgRating:   b.MinAvgRating,
		RatingRows:     b.RatingRows,
		TagRows:        b.TagRows,
		MovieRows:      b.MovieRows,
		Profiles:       b.Profiles,
		Vocabulary:     b.Vocabulary,
		EmptyProfiles:  b.EmptyProfiles,
	}
}

// FromHistoryQuery converts a persisted query record.
func FromHistoryQuery(q history.Query) QuerySummary {
	return QuerySummary{
		ID:        q.ID,
		BuildID:   q.BuildID,
		CreatedAt: formatTime(q.CreatedAt),
		Title:     q.Title,
		TopN:      q.TopN,
		Found:     q.Found,
		Results:   q.Results,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
