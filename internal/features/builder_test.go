package features

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"cinematch/internal/movielens"
)

func scenarioDataset() movielens.Dataset {
	return movielens.NewDataset(
		[]movielens.Rating{
			{UserID: 1, MovieID: 10, Rating: 4.0},
			{UserID: 2, MovieID: 10, Rating: 5.0},
			{UserID: 1, MovieID: 11, Rating: 2.0},
			{UserID: 2, MovieID: 11, Rating: 2.5},
		},
		[]movielens.Tag{
			{UserID: 1, MovieID: 10, Tag: "funny"},
			{UserID: 2, MovieID: 10, Tag: "funny"},
			{UserID: 1, MovieID: 11, Tag: "boring"},
		},
		[]movielens.Movie{
			{MovieID: 10, Title: "A", Genres: "Comedy"},
			{MovieID: 11, Title: "B", Genres: "Drama"},
		},
	)
}

func TestBuildDropsLowRatedMovies(t *testing.T) {
	profiles, stats, err := Build(context.Background(), scenarioDataset(), Options{MinAvgRating: DefaultMinAvgRating})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []Profile{{MovieID: 10, Title: "A", Genres: "Comedy", Features: "funny"}}
	if !reflect.DeepEqual(profiles, want) {
		t.Fatalf("profiles = %+v, want %+v", profiles, want)
	}
	if stats.RatingGroups != 3 || stats.QualifiedMovies != 1 || stats.Profiles != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestBuildPoolsTagsInTwoPhases(t *testing.T) {
	ds := movielens.NewDataset(
		[]movielens.Rating{
			{UserID: 1, MovieID: 10, Rating: 4.0},
			{UserID: 2, MovieID: 10, Rating: 4.5},
		},
		[]movielens.Tag{
			{UserID: 1, MovieID: 10, Tag: "funny"},
			{UserID: 1, MovieID: 10, Tag: "dark"},
			{UserID: 1, MovieID: 10, Tag: "funny"},
			{UserID: 2, MovieID: 10, Tag: "funny"},
			{UserID: 2, MovieID: 10, Tag: ""},
		},
		[]movielens.Movie{{MovieID: 10, Title: "A", Genres: "Comedy"}},
	)
	profiles, stats, err := Build(context.Background(), ds, Options{MinAvgRating: 3.5})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected one profile, got %d", len(profiles))
	}
	if got := profiles[0].Features; got != "dark|funny funny" {
		t.Fatalf("features = %q, want %q", got, "dark|funny funny")
	}
	if stats.TaggedRows != 5 {
		t.Fatalf("tagged rows = %d, want 5", stats.TaggedRows)
	}
}

func TestBuildExcludesMoviesWithoutTagsOrRatings(t *testing.T) {
	ds := movielens.NewDataset(
		[]movielens.Rating{
			{UserID: 1, MovieID: 1, Rating: 5},
			{UserID: 1, MovieID: 2, Rating: 5},
		},
		[]movielens.Tag{
			{UserID: 1, MovieID: 1, Tag: "classic"},
			{UserID: 1, MovieID: 3, Tag: "unrated"},
			// Tag from a user who never rated movie 2.
			{UserID: 9, MovieID: 2, Tag: "orphan"},
		},
		[]movielens.Movie{
			{MovieID: 1, Title: "Tagged", Genres: "Drama"},
			{MovieID: 2, Title: "Untagged", Genres: "Drama"},
			{MovieID: 3, Title: "Unrated", Genres: "Drama"},
		},
	)
	profiles, _, err := Build(context.Background(), ds, Options{MinAvgRating: 3.5})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Title != "Tagged" {
		t.Fatalf("unexpected profiles %+v", profiles)
	}
}

func TestBuildKeepsFirstDuplicateTitle(t *testing.T) {
	ds := movielens.NewDataset(
		[]movielens.Rating{
			{UserID: 1, MovieID: 5, Rating: 4},
			{UserID: 1, MovieID: 6, Rating: 4},
		},
		[]movielens.Tag{
			{UserID: 1, MovieID: 5, Tag: "remake"},
			{UserID: 1, MovieID: 6, Tag: "original"},
		},
		[]movielens.Movie{
			{MovieID: 6, Title: "Same", Genres: "Horror"},
			{MovieID: 5, Title: "Same", Genres: "Horror"},
		},
	)
	profiles, _, err := Build(context.Background(), ds, Options{MinAvgRating: 3.5})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(profiles) != 1 || profiles[0].MovieID != 6 || profiles[0].Features != "original" {
		t.Fatalf("expected the first listed movie to win, got %+v", profiles)
	}
}

func TestBuildOrdersProfilesByMovieID(t *testing.T) {
	ds := movielens.NewDataset(
		[]movielens.Rating{
			{UserID: 1, MovieID: 30, Rating: 4},
			{UserID: 1, MovieID: 10, Rating: 4},
			{UserID: 1, MovieID: 20, Rating: 4},
		},
		[]movielens.Tag{
			{UserID: 1, MovieID: 30, Tag: "c"},
			{UserID: 1, MovieID: 10, Tag: "a"},
			{UserID: 1, MovieID: 20, Tag: "b"},
		},
		[]movielens.Movie{
			{MovieID: 30, Title: "Thirty"},
			{MovieID: 20, Title: "Twenty"},
			{MovieID: 10, Title: "Ten"},
		},
	)
	profiles, _, err := Build(context.Background(), ds, Options{MinAvgRating: 3.5})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var ids []int64
	for _, p := range profiles {
		ids = append(ids, p.MovieID)
	}
	if !reflect.DeepEqual(ids, []int64{10, 20, 30}) {
		t.Fatalf("unexpected order %v", ids)
	}
}

func TestBuildMeanRatingPropertyHolds(t *testing.T) {
	ds := movielens.NewDataset(
		[]movielens.Rating{
			{UserID: 1, MovieID: 1, Rating: 3.5},
			{UserID: 2, MovieID: 1, Rating: 3.5},
			{UserID: 1, MovieID: 2, Rating: 5},
			{UserID: 2, MovieID: 2, Rating: 1},
			{UserID: 1, MovieID: 3, Rating: 3.4},
		},
		[]movielens.Tag{
			{UserID: 1, MovieID: 1, Tag: "x"},
			{UserID: 2, MovieID: 1, Tag: "y"},
			{UserID: 1, MovieID: 2, Tag: "x"},
			{UserID: 2, MovieID: 2, Tag: "z"},
			{UserID: 1, MovieID: 3, Tag: "x"},
		},
		[]movielens.Movie{
			{MovieID: 1, Title: "Exactly"},
			{MovieID: 2, Title: "Split"},
			{MovieID: 3, Title: "Below"},
		},
	)
	profiles, _, err := Build(context.Background(), ds, Options{MinAvgRating: 3.5})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	means := map[int64][]float64{}
	for _, r := range ds.Ratings.Rows {
		means[r.MovieID] = append(means[r.MovieID], r.Rating)
	}
	for _, p := range profiles {
		var sum float64
		for _, v := range means[p.MovieID] {
			sum += v
		}
		if avg := sum / float64(len(means[p.MovieID])); avg < 3.5 {
			t.Fatalf("profile %q has mean %v below threshold", p.Title, avg)
		}
	}
	if len(profiles) != 1 || profiles[0].Title != "Exactly" {
		t.Fatalf("unexpected profiles %+v", profiles)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	ds := scenarioDataset()
	ds.Tags.Rows = append(ds.Tags.Rows,
		movielens.Tag{UserID: 1, MovieID: 10, Tag: "witty"},
		movielens.Tag{UserID: 1, MovieID: 10, Tag: "absurd"},
	)
	first, _, err := Build(context.Background(), ds, Options{MinAvgRating: 3.5})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _, err := Build(context.Background(), ds, Options{MinAvgRating: 3.5})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestBuildRejectsMissingColumns(t *testing.T) {
	ds := scenarioDataset()
	ds.Movies.Columns = []string{movielens.ColumnMovieID, movielens.ColumnTitle}
	_, _, err := Build(context.Background(), ds, Options{MinAvgRating: 3.5})
	if !errors.Is(err, movielens.ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}
