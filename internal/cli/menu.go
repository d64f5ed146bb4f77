package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"moviecatalog/internal/models"
	"moviecatalog/internal/report"
	"moviecatalog/internal/services"
)

const banner = `
===== Movie Management System =====
1. Add Movie
2. View Movies
3. Search Movies
4. Delete Movie
5. Export Movies to Text File
6. Recommend Movies
7. Exit`

// Catalog is the set of operations the menu drives
type Catalog interface {
	AddMovie(ctx context.Context, in services.MovieInput) (*models.Movie, error)
	ListMovies(ctx context.Context) ([]models.Movie, error)
	SearchMovies(ctx context.Context, term string) ([]models.Movie, error)
	DeleteMovie(ctx context.Context, idText string) error
	ExportMovies(ctx context.Context) (int, error)
	ExportPath() string
	Recommend(ctx context.Context, title string) (*models.Recommendation, error)
}

// errEndOfInput ends the session the same way choosing Exit does
var errEndOfInput = errors.New("end of input")

// Menu is the interactive loop. It reads one line per prompt from in and writes
// everything the user sees to out.
type Menu struct {
	catalog Catalog
	in      *bufio.Reader
	out     io.Writer
}

// NewMenu creates a menu over the given streams
func NewMenu(catalog Catalog, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		catalog: catalog,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Run shows the menu until the user exits or input ends. A non-nil error means the
// store became unavailable and the session must end.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(m.out, banner)

		choice, err := m.prompt("Enter your choice: ")
		if err != nil {
			m.goodbye()
			return nil
		}

		var opErr error
		switch strings.TrimSpace(choice) {
		case "1":
			opErr = m.addMovie(ctx)
		case "2":
			opErr = m.viewMovies(ctx)
		case "3":
			opErr = m.searchMovies(ctx)
		case "4":
			opErr = m.deleteMovie(ctx)
		case "5":
			opErr = m.exportMovies(ctx)
		case "6":
			opErr = m.recommend(ctx)
		case "7":
			m.goodbye()
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice! Please try again.")
			continue
		}

		switch {
		case opErr == nil:
		case errors.Is(opErr, errEndOfInput):
			m.goodbye()
			return nil
		case services.IsFatal(opErr):
			return opErr
		default:
			fmt.Fprintf(m.out, "Error: %v\n", opErr)
		}
	}
}

func (m *Menu) goodbye() {
	fmt.Fprintln(m.out, "Exiting... Goodbye!")
}

// prompt writes label and returns the next line without its line ending.
// A final line without a newline is still returned.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)

	line, err := m.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errEndOfInput
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (m *Menu) prompts(labels ...string) ([]string, error) {
	answers := make([]string, len(labels))
	for i, label := range labels {
		answer, err := m.prompt(label)
		if err != nil {
			return nil, err
		}
		answers[i] = answer
	}
	return answers, nil
}

func (m *Menu) addMovie(ctx context.Context) error {
	a, err := m.prompts(
		"Enter movie title: ",
		"Enter genre: ",
		"Enter release year: ",
		"Enter rating (0.0 - 10.0): ",
		"Enter duration (in minutes): ",
		"Enter director's name: ",
	)
	if err != nil {
		return err
	}

	_, err = m.catalog.AddMovie(ctx, services.MovieInput{
		Title:       a[0],
		Genre:       a[1],
		ReleaseYear: a[2],
		Rating:      a[3],
		Duration:    a[4],
		Director:    a[5],
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, "Movie added successfully!")
	return nil
}

func (m *Menu) viewMovies(ctx context.Context) error {
	movies, err := m.catalog.ListMovies(ctx)
	if err != nil {
		return err
	}
	return m.printMovies("=== Movies ===", movies)
}

func (m *Menu) searchMovies(ctx context.Context) error {
	term, err := m.prompt("Enter movie title or director name: ")
	if err != nil {
		return err
	}

	movies, err := m.catalog.SearchMovies(ctx, term)
	if err != nil {
		return err
	}
	return m.printMovies("=== Search Results ===", movies)
}

func (m *Menu) printMovies(heading string, movies []models.Movie) error {
	if len(movies) == 0 {
		fmt.Fprintln(m.out, "No movies found!")
		return nil
	}

	fmt.Fprintf(m.out, "\n%s\n", heading)
	return report.WriteTable(m.out, movies)
}

func (m *Menu) deleteMovie(ctx context.Context) error {
	id, err := m.prompt("Enter movie ID to delete: ")
	if err != nil {
		return err
	}

	err = m.catalog.DeleteMovie(ctx, id)
	if errors.Is(err, services.ErrMovieNotFound) {
		fmt.Fprintln(m.out, "Movie not found!")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, "Movie deleted successfully!")
	return nil
}

func (m *Menu) exportMovies(ctx context.Context) error {
	count, err := m.catalog.ExportMovies(ctx)
	if err != nil {
		return err
	}

	if count == 0 {
		fmt.Fprintln(m.out, "No movies to export!")
		return nil
	}

	fmt.Fprintf(m.out, "Movies exported to '%s'\n", m.catalog.ExportPath())
	return nil
}

func (m *Menu) recommend(ctx context.Context) error {
	title, err := m.prompt("Enter a movie you like for recommendation: ")
	if err != nil {
		return err
	}

	rec, err := m.catalog.Recommend(ctx, title)
	if errors.Is(err, services.ErrMovieNotFound) {
		fmt.Fprintln(m.out, "Movie not found!")
		return nil
	}
	if err != nil {
		return err
	}

	if len(rec.Matches) == 0 {
		fmt.Fprintln(m.out, "No recommendations found!")
		return nil
	}

	fmt.Fprintf(m.out, "\nBecause you liked '%s' (%s), you may also like:\n", rec.Title, rec.GenreText())
	for _, match := range rec.Matches {
		fmt.Fprintf(m.out, "%s - Rating: %s\n", match.Title, match.RatingText())
	}
	return nil
}
