package models

import "strconv"

// Movie represents the movies table
type Movie struct {
	MovieID     int64    `gorm:"column:movie_id;primaryKey;autoIncrement" json:"movie_id" yaml:"-"`
	Title       string   `gorm:"size:255;not null" json:"title" yaml:"title"`
	Genre       *string  `gorm:"size:100" json:"genre,omitempty" yaml:"genre"`
	ReleaseYear *int     `gorm:"column:release_year" json:"release_year,omitempty" yaml:"release_year"`
	Rating      *float64 `gorm:"type:decimal(3,1)" json:"rating,omitempty" yaml:"rating"`
	Duration    *int     `json:"duration,omitempty" yaml:"duration"` // minutes
	Director    *string  `gorm:"size:255" json:"director,omitempty" yaml:"director"`
}

func (Movie) TableName() string {
	return "movies"
}

// GenreText returns the genre or an empty string when NULL
func (m Movie) GenreText() string {
	return stringOrEmpty(m.Genre)
}

// DirectorText returns the director or an empty string when NULL
func (m Movie) DirectorText() string {
	return stringOrEmpty(m.Director)
}

// ReleaseYearText renders the year, empty when NULL
func (m Movie) ReleaseYearText() string {
	return intOrEmpty(m.ReleaseYear)
}

// DurationText renders the duration in minutes, empty when NULL
func (m Movie) DurationText() string {
	return intOrEmpty(m.Duration)
}

// RatingText renders the rating with one fractional digit, empty when NULL
func (m Movie) RatingText() string {
	return FormatRating(m.Rating)
}

// FormatRating renders a decimal(3,1) value the way the store holds it
func FormatRating(r *float64) string {
	if r == nil {
		return ""
	}
	return strconv.FormatFloat(*r, 'f', 1, 64)
}

// Recommendation is the result of a same-genre lookup
type Recommendation struct {
	Title   string
	Genre   *string
	Matches []Movie
}

// GenreText returns the looked up genre or an empty string when NULL
func (r Recommendation) GenreText() string {
	return stringOrEmpty(r.Genre)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
