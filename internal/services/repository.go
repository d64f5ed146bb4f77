package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"moviecatalog/internal/models"
)

// ErrMovieNotFound is returned when no row matches the requested id or title
var ErrMovieNotFound = errors.New("movie not found")

// likeEscaper makes % and _ in a search term match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repository provides data access for the movies table. It is built per operation
// from the scoped connection handed out by DatabaseManager.WithConnection.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository instance
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateMovie inserts a movie; the store assigns MovieID
func (r *Repository) CreateMovie(movie *models.Movie) error {
	if err := r.db.Create(movie).Error; err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

// ListMovies returns every row in store order
func (r *Repository) ListMovies() ([]models.Movie, error) {
	var movies []models.Movie
	if err := r.db.Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

// CountMovies returns the number of rows
func (r *Repository) CountMovies() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Movie{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

// SearchMovies returns rows whose title or director contains term, ignoring case
func (r *Repository) SearchMovies(term string) ([]models.Movie, error) {
	pattern := "%" + likeEscaper.Replace(term) + "%"

	var movies []models.Movie
	err := r.db.
		Where(`LOWER(title) LIKE LOWER(?) ESCAPE '\' OR LOWER(director) LIKE LOWER(?) ESCAPE '\'`, pattern, pattern).
		Find(&movies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	return movies, nil
}

// DeleteMovie removes the row with the given id and reports whether one existed
func (r *Repository) DeleteMovie(id int64) (bool, error) {
	result := r.db.Delete(&models.Movie{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete movie %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetGenreByTitle looks up the genre of the lowest-id movie titled title.
// The returned genre is nil when that row has no genre.
func (r *Repository) GetGenreByTitle(title string) (*string, error) {
	var movie models.Movie
	err := r.db.
		Select("movie_id", "genre").
		Where("LOWER(title) = LOWER(?)", title).
		Order("movie_id ASC").
		Take(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up movie %q: %w", title, err)
	}
	return movie.Genre, nil
}

// GetMoviesByGenre returns up to limit movies of genre other than excludeTitle,
// best rated first with unrated movies last
func (r *Repository) GetMoviesByGenre(genre, excludeTitle string, limit int) ([]models.Movie, error) {
	var movies []models.Movie
	err := r.db.
		Where("genre = ? AND LOWER(title) <> LOWER(?)", genre, excludeTitle).
		Order("CASE WHEN rating IS NULL THEN 1 ELSE 0 END").
		Order("rating DESC").
		Order("movie_id ASC").
		Limit(limit).
		Find(&movies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find movies in genre %q: %w", genre, err)
	}
	return movies, nil
}
