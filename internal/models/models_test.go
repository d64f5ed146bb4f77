package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovie_TextAccessors(t *testing.T) {
	genre, director := "Sci-Fi", "Wachowski"
	year, duration := 1999, 136
	rating := 8.7

	movie := Movie{
		MovieID:     3,
		Title:       "The Matrix",
		Genre:       &genre,
		ReleaseYear: &year,
		Rating:      &rating,
		Duration:    &duration,
		Director:    &director,
	}

	assert.Equal(t, "movies", movie.TableName())
	assert.Equal(t, "Sci-Fi", movie.GenreText())
	assert.Equal(t, "Wachowski", movie.DirectorText())
	assert.Equal(t, "1999", movie.ReleaseYearText())
	assert.Equal(t, "136", movie.DurationText())
	assert.Equal(t, "8.7", movie.RatingText())
}

func TestMovie_NullFieldsRenderEmpty(t *testing.T) {
	movie := Movie{Title: "Untitled"}

	assert.Empty(t, movie.GenreText())
	assert.Empty(t, movie.DirectorText())
	assert.Empty(t, movie.ReleaseYearText())
	assert.Empty(t, movie.DurationText())
	assert.Empty(t, movie.RatingText())
}

func TestFormatRating(t *testing.T) {
	nine := 9.0
	assert.Equal(t, "9.0", FormatRating(&nine))
	assert.Equal(t, "", FormatRating(nil))
}

func TestRecommendation_GenreText(t *testing.T) {
	genre := "Sci-Fi"
	assert.Equal(t, "Sci-Fi", Recommendation{Title: "Inception", Genre: &genre}.GenreText())
	assert.Empty(t, Recommendation{Title: "Untitled"}.GenreText())
}
