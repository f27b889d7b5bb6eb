package movielens

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Paths locates the three CSV files on disk.
type Paths struct {
	Ratings string
	Tags    string
	Movies  string
}

// ctxCheckInterval is how many rows are parsed between cancellation checks.
const ctxCheckInterval = 4096

// LoadDataset reads all three CSV files.
func LoadDataset(ctx context.Context, paths Paths) (Dataset, error) {
	var ds Dataset
	var err error
	if ds.Ratings, err = loadFile(ctx, paths.Ratings, ReadRatings); err != nil {
		return Dataset{}, err
	}
	if ds.Tags, err = loadFile(ctx, paths.Tags, ReadTags); err != nil {
		return Dataset{}, err
	}
	if ds.Movies, err = loadFile(ctx, paths.Movies, ReadMovies); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

func loadFile[T any](ctx context.Context, path string, read func(context.Context, io.Reader) (T, error)) (T, error) {
	var zero T
	file, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	table, err := read(ctx, bufio.NewReader(file))
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", path, err)
	}
	return table, nil
}

// ReadRatings parses a ratings CSV stream.
func ReadRatings(ctx context.Context, r io.Reader) (RatingTable, error) {
	table := RatingTable{}
	err := readCSV(ctx, r, DatasetRatings, ratingColumns, func(header []string) { table.Columns = header },
		func(row csvRow) error {
			userID, err := row.intValue(ColumnUserID)
			if err != nil {
				return err
			}
			movieID, err := row.intValue(ColumnMovieID)
			if err != nil {
				return err
			}
			rating, err := row.floatValue(ColumnRating)
			if err != nil {
				return err
			}
			table.Rows = append(table.Rows, Rating{UserID: userID, MovieID: movieID, Rating: rating})
			return nil
		})
	return table, err
}

// ReadTags parses a tags CSV stream.
func ReadTags(ctx context.Context, r io.Reader) (TagTable, error) {
	table := TagTable{}
	err := readCSV(ctx, r, DatasetTags, tagColumns, func(header []string) { table.Columns = header },
		func(row csvRow) error {
			userID, err := row.intValue(ColumnUserID)
			if err != nil {
				return err
			}
			movieID, err := row.intValue(ColumnMovieID)
			if err != nil {
				return err
			}
			table.Rows = append(table.Rows, Tag{UserID: userID, MovieID: movieID, Tag: row.text(ColumnTag)})
			return nil
		})
	return table, err
}

// ReadMovies parses a movies CSV stream.
func ReadMovies(ctx context.Context, r io.Reader) (MovieTable, error) {
	table := MovieTable{}
	err := readCSV(ctx, r, DatasetMovies, movieColumns, func(header []string) { table.Columns = header },
		func(row csvRow) error {
			movieID, err := row.intValue(ColumnMovieID)
			if err != nil {
				return err
			}
			table.Rows = append(table.Rows, Movie{
				MovieID: movieID,
				Title:   row.text(ColumnTitle),
				Genres:  row.text(ColumnGenres),
			})
			return nil
		})
	return table, err
}

type csvRow struct {
	line   int
	record []string
	index  map[string]int
}

func (r csvRow) text(column string) string {
	idx := r.index[column]
	if idx >= len(r.record) {
		return ""
	}
	return r.record[idx]
}

func (r csvRow) intValue(column string) (int64, error) {
	raw := strings.TrimSpace(r.text(column))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: column %s: invalid integer %q", r.line, column, raw)
	}
	return value, nil
}

func (r csvRow) floatValue(column string) (float64, error) {
	raw := strings.TrimSpace(r.text(column))
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: column %s: invalid number %q", r.line, column, raw)
	}
	return value, nil
}

func readCSV(ctx context.Context, r io.Reader, dataset string, required []string, onHeader func([]string), onRow func(csvRow) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s dataset is empty: missing header row", dataset)
		}
		return fmt.Errorf("read %s header: %w", dataset, err)
	}
	header = normalizeHeader(header)
	if err := RequireColumns(dataset, header, required); err != nil {
		return err
	}
	onHeader(header)

	index := make(map[string]int, len(header))
	for i, col := range header {
		if _, seen := index[col]; !seen {
			index[col] = i
		}
	}

	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parse %s: %w", dataset, err)
		}
		line, _ := reader.FieldPos(0)
		if err := onRow(csvRow{line: line, record: record, index: index}); err != nil {
			return err
		}
	}
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		out[i] = col
	}
	return out
}

// RequiredColumns returns the header columns a dataset must carry.
func RequiredColumns(dataset string) []string {
	switch dataset {
	case DatasetRatings:
		return cloneColumns(ratingColumns)
	case DatasetTags:
		return cloneColumns(tagColumns)
	case DatasetMovies:
		return cloneColumns(movieColumns)
	default:
		return nil
	}
}

// CheckHeader reads only the header row of r and verifies the dataset's
// required columns are present.
func CheckHeader(dataset string, r io.Reader) error {
	header, err := csv.NewReader(r).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s dataset is empty: missing header row", dataset)
		}
		return fmt.Errorf("read %s header: %w", dataset, err)
	}
	return RequireColumns(dataset, normalizeHeader(header), RequiredColumns(dataset))
}
