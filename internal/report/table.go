package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"moviecatalog/internal/models"
)

const (
	headerFormat = "%-5s %-25s %-15s %-6s %-7s %-10s %s\n"
	rowFormat    = "%-5d %-25s %-15s %-6s %-7s %-10s %s\n"
)

// Separator is the dashed line under the table header
var Separator = strings.Repeat("-", 80)

// WriteTable renders movies as the fixed-width catalog table.
// Values wider than their column are written in full.
func WriteTable(w io.Writer, movies []models.Movie) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, headerFormat, "ID", "Title", "Genre", "Year", "Rating", "Duration", "Director")
	fmt.Fprintln(bw, Separator)
	for _, m := range movies {
		fmt.Fprintf(bw, rowFormat,
			m.MovieID,
			m.Title,
			m.GenreText(),
			m.ReleaseYearText(),
			m.RatingText(),
			m.DurationText(),
			m.DirectorText(),
		)
	}

	return bw.Flush()
}
