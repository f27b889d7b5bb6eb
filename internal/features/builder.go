package features

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"cinematch/internal/movielens"
)

const (
	// TagDelimiter joins the tags pooled for one rating row.
	TagDelimiter = "|"
	// BagDelimiter joins the per-row bags pooled for one movie.
	BagDelimiter = " "
	// DefaultMinAvgRating is the mean rating a movie needs to get a profile.
	DefaultMinAvgRating = 3.5
)

// Profile is the consolidated bag of tags for one movie.
type Profile struct {
	MovieID  int64
	Title    string
	Genres   string
	Features string
}

// Options tunes the build.
type Options struct {
	MinAvgRating float64
}

// Stats summarizes row counts at each stage of a build.
type Stats struct {
	UniqueMovies    int
	RatedRows       int
	TaggedRows      int
	RatingGroups    int
	QualifiedMovies int
	Profiles        int
}

type joinedRow struct {
	UserID  int64
	MovieID int64
	Rating  float64
	Title   string
	Genres  string
}

type ratingGroup struct {
	key  joinedRow
	tags map[string]struct{}
}

type movieKey struct {
	MovieID int64
	Title   string
	Genres  string
}

type userMovie struct {
	UserID  int64
	MovieID int64
}

// Build pools tags into one profile per movie whose mean rating is at least
// opts.MinAvgRating. Profiles are ordered by movie ID, then title, then genres.
func Build(ctx context.Context, ds movielens.Dataset, opts Options) ([]Profile, Stats, error) {
	var stats Stats
	if err := ds.Validate(); err != nil {
		return nil, stats, err
	}

	movies := dedupeTitles(ds.Movies.Rows)
	stats.UniqueMovies = len(movies)

	rated := joinRatings(ds.Ratings.Rows, movies)
	stats.RatedRows = len(rated)
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	groups, tagged := groupTags(rated, ds.Tags.Rows)
	stats.TaggedRows = tagged
	stats.RatingGroups = len(groups)
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	qualified := qualifyingMovies(groups, opts.MinAvgRating)
	stats.QualifiedMovies = len(qualified)

	profiles := poolProfiles(groups, qualified)
	stats.Profiles = len(profiles)
	return profiles, stats, nil
}

// dedupeTitles keeps the first movie row for every title.
func dedupeTitles(rows []movielens.Movie) []movielens.Movie {
	seen := make(map[string]struct{}, len(rows))
	out := make([]movielens.Movie, 0, len(rows))
	for _, movie := range rows {
		if _, dup := seen[movie.Title]; dup {
			continue
		}
		seen[movie.Title] = struct{}{}
		out = append(out, movie)
	}
	return out
}

// joinRatings inner-joins ratings with movies on movie ID.
func joinRatings(ratings []movielens.Rating, movies []movielens.Movie) []joinedRow {
	byID := make(map[int64][]movielens.Movie, len(movies))
	for _, movie := range movies {
		byID[movie.MovieID] = append(byID[movie.MovieID], movie)
	}
	out := make([]joinedRow, 0, len(ratings))
	for _, rating := range ratings {
		for _, movie := range byID[rating.MovieID] {
			out = append(out, joinedRow{
				UserID:  rating.UserID,
				MovieID: rating.MovieID,
				Rating:  rating.Rating,
				Title:   movie.Title,
				Genres:  movie.Genres,
			})
		}
	}
	return out
}

// groupTags inner-joins rated rows with tags on (user, movie) and pools the
// non-empty tags of each (user, movie, rating, title, genres) group. It also
// returns the number of joined rows.
func groupTags(rated []joinedRow, tags []movielens.Tag) ([]ratingGroup, int) {
	byKey := make(map[userMovie][]string, len(tags))
	for _, tag := range tags {
		key := userMovie{UserID: tag.UserID, MovieID: tag.MovieID}
		byKey[key] = append(byKey[key], tag.Tag)
	}

	index := make(map[joinedRow]int)
	var groups []ratingGroup
	joined := 0
	for _, row := range rated {
		matches, ok := byKey[userMovie{UserID: row.UserID, MovieID: row.MovieID}]
		if !ok {
			continue
		}
		joined += len(matches)
		pos, exists := index[row]
		if !exists {
			pos = len(groups)
			index[row] = pos
			groups = append(groups, ratingGroup{key: row, tags: make(map[string]struct{})})
		}
		for _, tag := range matches {
			if tag == "" {
				continue
			}
			groups[pos].tags[tag] = struct{}{}
		}
	}

	slices.SortFunc(groups, func(a, b ratingGroup) int {
		return compareJoined(a.key, b.key)
	})
	return groups, joined
}

func compareJoined(a, b joinedRow) int {
	if c := cmp.Compare(a.UserID, b.UserID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.MovieID, b.MovieID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Rating, b.Rating); c != 0 {
		return c
	}
	if c := strings.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	return strings.Compare(a.Genres, b.Genres)
}

// qualifyingMovies returns the movie IDs whose mean group rating is at least min.
func qualifyingMovies(groups []ratingGroup, minAvg float64) map[int64]struct{} {
	type acc struct {
		sum   float64
		count int
	}
	totals := make(map[int64]*acc)
	for _, group := range groups {
		a, ok := totals[group.key.MovieID]
		if !ok {
			a = &acc{}
			totals[group.key.MovieID] = a
		}
		a.sum += group.key.Rating
		a.count++
	}
	out := make(map[int64]struct{}, len(totals))
	for id, a := range totals {
		if a.sum/float64(a.count) >= minAvg {
			out[id] = struct{}{}
		}
	}
	return out
}

// poolProfiles joins each qualifying group's tags with TagDelimiter, then
// joins the distinct per-group bags of each movie with BagDelimiter.
func poolProfiles(groups []ratingGroup, qualified map[int64]struct{}) []Profile {
	bags := make(map[movieKey]map[string]struct{})
	var order []movieKey
	for _, group := range groups {
		if _, ok := qualified[group.key.MovieID]; !ok {
			continue
		}
		key := movieKey{MovieID: group.key.MovieID, Title: group.key.Title, Genres: group.key.Genres}
		set, ok := bags[key]
		if !ok {
			set = make(map[string]struct{})
			bags[key] = set
			order = append(order, key)
		}
		if bag := strings.Join(sortedSet(group.tags), TagDelimiter); bag != "" {
			set[bag] = struct{}{}
		}
	}

	slices.SortFunc(order, func(a, b movieKey) int {
		if c := cmp.Compare(a.MovieID, b.MovieID); c != 0 {
			return c
		}
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.Genres, b.Genres)
	})

	profiles := make([]Profile, 0, len(order))
	for _, key := range order {
		profiles = append(profiles, Profile{
			MovieID:  key.MovieID,
			Title:    key.Title,
			Genres:   key.Genres,
			Features: strings.Join(sortedSet(bags[key]), BagDelimiter),
		})
	}
	return profiles
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for value := range set {
		out = append(out, value)
	}
	slices.Sort(out)
	return out
}
