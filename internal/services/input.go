package services

import (
	"math"
	"strconv"
	"strings"

	"moviecatalog/internal/models"
	"moviecatalog/internal/validation"
)

// MovieInput is the raw text collected by the add prompts
type MovieInput struct {
	Title       string
	Genre       string
	ReleaseYear string
	Rating      string
	Duration    string
	Director    string
}

type movieFields struct {
	Title       string   `label:"title" validate:"required,max=255"`
	Genre       string   `label:"genre" validate:"max=100"`
	ReleaseYear *int     `label:"release year" validate:"omitempty,gte=1000,lte=9999"`
	Rating      *float64 `label:"rating" validate:"omitempty,gte=0,lte=10"`
	Duration    *int     `label:"duration" validate:"omitempty,gte=0"`
	Director    string   `label:"director" validate:"max=255"`
}

// ParseMovieInput converts and validates the add prompts. Empty optional fields
// become NULL. Failures are *validation.RequestValidationError.
func ParseMovieInput(in MovieInput) (*models.Movie, error) {
	fields := movieFields{
		Title:    strings.TrimSpace(in.Title),
		Genre:    strings.TrimSpace(in.Genre),
		Director: strings.TrimSpace(in.Director),
	}

	var err error
	if fields.ReleaseYear, err = parseOptionalInt("release year", in.ReleaseYear); err != nil {
		return nil, err
	}
	if fields.Rating, err = parseOptionalRating(in.Rating); err != nil {
		return nil, err
	}
	if fields.Duration, err = parseOptionalInt("duration", in.Duration); err != nil {
		return nil, err
	}

	if err := validation.ValidateStruct(&fields); err != nil {
		return nil, err
	}

	return &models.Movie{
		Title:       fields.Title,
		Genre:       optionalString(fields.Genre),
		ReleaseYear: fields.ReleaseYear,
		Rating:      fields.Rating,
		Duration:    fields.Duration,
		Director:    optionalString(fields.Director),
	}, nil
}

// ParseMovieID parses a delete target; it must be a positive integer
func ParseMovieID(text string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, validation.NewFieldError("movie id", "must be a whole number")
	}
	if id <= 0 {
		return 0, validation.NewFieldError("movie id", "must be greater than 0")
	}
	return id, nil
}

func parseOptionalInt(field, text string) (*int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return nil, validation.NewFieldError(field, "must be a whole number")
	}
	return &v, nil
}

// parseOptionalRating rounds to the single fractional digit the column stores
func parseOptionalRating(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, validation.NewFieldError("rating", "must be a number")
	}
	v = math.Round(v*10) / 10
	if v == 0 {
		// -0.04 rounds to -0
		v = 0
	}
	return &v, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
