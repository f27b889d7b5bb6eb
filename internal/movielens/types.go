package movielens

// Column names required by each record set.
const (
	ColumnUserID    = "userId"
	ColumnMovieID   = "movieId"
	ColumnRating    = "rating"
	ColumnTag       = "tag"
	ColumnTitle     = "title"
	ColumnGenres    = "genres"
	ColumnTimestamp = "timestamp"
)

// Dataset names used in errors and logs.
const (
	DatasetRatings = "ratings"
	DatasetTags    = "tags"
	DatasetMovies  = "movies"
)

var (
	ratingColumns = []string{ColumnUserID, ColumnMovieID, ColumnRating, ColumnTimestamp}
	tagColumns    = []string{ColumnUserID, ColumnMovieID, ColumnTag, ColumnTimestamp}
	movieColumns  = []string{ColumnMovieID, ColumnTitle, ColumnGenres}
)

// Rating is one user's score for one movie. The timestamp is discarded at load.
type Rating struct {
	UserID  int64
	MovieID int64
	Rating  float64
}

// Tag is one free-text label a user attached to a movie. An empty Tag is a
// missing value.
type Tag struct {
	UserID  int64
	MovieID int64
	Tag     string
}

// Movie is one catalogue entry.
type Movie struct {
	MovieID int64
	Title   string
	Genres  string
}

// RatingTable holds rating rows and the header they were read with.
type RatingTable struct {
	Columns []string
	Rows    []Rating
}

// TagTable holds tag rows and the header they were read with.
type TagTable struct {
	Columns []string
	Rows    []Tag
}

// MovieTable holds movie rows and the header they were read with.
type MovieTable struct {
	Columns []string
	Rows    []Movie
}

// Dataset bundles the three record sets.
type Dataset struct {
	Ratings RatingTable
	Tags    TagTable
	Movies  MovieTable
}

// NewRatingTable wraps rows with the canonical ratings header.
func NewRatingTable(rows []Rating) RatingTable {
	return RatingTable{Columns: cloneColumns(ratingColumns), Rows: rows}
}

// NewTagTable wraps rows with the canonical tags header.
func NewTagTable(rows []Tag) TagTable {
	return TagTable{Columns: cloneColumns(tagColumns), Rows: rows}
}

// NewMovieTable wraps rows with the canonical movies header.
func NewMovieTable(rows []Movie) MovieTable {
	return MovieTable{Columns: cloneColumns(movieColumns), Rows: rows}
}

// NewDataset assembles a dataset from rows using canonical headers.
func NewDataset(ratings []Rating, tags []Tag, movies []Movie) Dataset {
	return Dataset{
		Ratings: NewRatingTable(ratings),
		Tags:    NewTagTable(tags),
		Movies:  NewMovieTable(movies),
	}
}

// Validate reports the first required column missing from any record set.
func (d Dataset) Validate() error {
	if err := RequireColumns(DatasetRatings, d.Ratings.Columns, ratingColumns); err != nil {
		return err
	}
	if err := RequireColumns(DatasetTags, d.Tags.Columns, tagColumns); err != nil {
		return err
	}
	return RequireColumns(DatasetMovies, d.Movies.Columns, movieColumns)
}

func cloneColumns(columns []string) []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}
