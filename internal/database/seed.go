package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"moviecatalog/internal/models"
)

//go:embed seed_movies.yaml
var seedMoviesYAML []byte

type seedFile struct {
	Movies []models.Movie `yaml:"movies"`
}

// LoadSeedMovies decodes the bundled sample movies
func LoadSeedMovies() ([]models.Movie, error) {
	var file seedFile
	if err := yaml.Unmarshal(seedMoviesYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to decode seed movies: %w", err)
	}
	return file.Movies, nil
}

// SeedMovies inserts the sample movies in one batch if the table is empty.
// It returns the number of rows inserted.
func SeedMovies(ctx context.Context, db *gorm.DB, logger *zerolog.Logger) (int, error) {
	movies, err := LoadSeedMovies()
	if err != nil {
		return 0, err
	}

	inserted := 0
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Movie{}).Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			if logger != nil {
				logger.Debug().Int64("rows", count).Msg("Movies already exist, skipping seed")
			}
			return nil
		}

		if err := tx.CreateInBatches(&movies, len(movies)).Error; err != nil {
			return err
		}
		inserted = len(movies)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if logger != nil && inserted > 0 {
		logger.Info().Int("rows", inserted).Msg("Seeded sample movies")
	}
	return inserted, nil
}
