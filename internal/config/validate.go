package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDatasets(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDatasets() error {
	if c.Datasets.RatingsPath == "" {
		return errors.New("datasets.ratings_path must be set")
	}
	if c.Datasets.TagsPath == "" {
		return errors.New("datasets.tags_path must be set")
	}
	if c.Datasets.MoviesPath == "" {
		return errors.New("datasets.movies_path must be set")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if math.IsNaN(r.MinAvgRating) || r.MinAvgRating < 0 || r.MinAvgRating > maxRatingValue {
		return fmt.Errorf("recommend.min_avg_rating must be between 0 and %.1f", maxRatingValue)
	}
	if r.TopN <= 0 {
		return errors.New("recommend.top_n must be positive")
	}
	if r.SimilarityWorkers < 0 {
		return errors.New("recommend.similarity_workers must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
