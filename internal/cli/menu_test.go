package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviecatalog/internal/database"
	"moviecatalog/internal/logging"
	"moviecatalog/internal/models"
	"moviecatalog/internal/report"
	"moviecatalog/internal/services"
	"moviecatalog/internal/test"
)

const bannerText = "\n===== Movie Management System =====\n" +
	"1. Add Movie\n2. View Movies\n3. Search Movies\n4. Delete Movie\n" +
	"5. Export Movies to Text File\n6. Recommend Movies\n7. Exit\n" +
	"Enter your choice: "

func newSeededCatalog(t *testing.T) (*services.Catalog, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	catalog := services.NewCatalog(
		test.SetupTestEnvironment(t),
		report.NewExporter(fs, "movies_export.txt"),
		services.WithLogger(logging.NewLogger(logging.ErrorLevel, io.Discard)),
	)
	return catalog, fs
}

func run(t *testing.T, catalog Catalog, input string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := NewMenu(catalog, strings.NewReader(input), &out).Run(context.Background())
	return out.String(), err
}

func TestMenuExit(t *testing.T) {
	catalog, _ := newSeededCatalog(t)

	out, err := run(t, catalog, "7\n")
	require.NoError(t, err)
	assert.Equal(t, bannerText+"Exiting... Goodbye!\n", out)
}

func TestMenuEndOfInputExits(t *testing.T) {
	catalog, _ := newSeededCatalog(t)

	out, err := run(t, catalog, "")
	require.NoError(t, err)
	assert.Equal(t, bannerText+"Exiting... Goodbye!\n", out)

	// input ending in the middle of the add prompts
	out, err = run(t, catalog, "1\nHeat\n")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "Enter genre: Exiting... Goodbye!\n"))
}

func TestMenuInvalidChoice(t *testing.T) {
	catalog, _ := newSeededCatalog(t)

	out, err := run(t, catalog, "9\nabc\n7\n")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Invalid choice! Please try again.\n"))
	assert.Equal(t, 3, strings.Count(out, "===== Movie Management System ====="))
}

func TestMenuTranscript(t *testing.T) {
	catalog, fs := newSeededCatalog(t)

	input := strings.Join([]string{
		"3", "Nolan",
		"1", "Heat", "Crime", "1995", "8.3", "170", "Michael Mann",
		"4", "2",
		"4", "2",
		"6", "inception",
		"6", "Nowhere",
		"5",
		"7",
	}, "\n") + "\n"

	out, err := run(t, catalog, input)
	require.NoError(t, err)

	header := "ID    Title                     Genre           Year   Rating  Duration   Director\n" +
		strings.Repeat("-", 80) + "\n"
	search := "Enter movie title or director name: \n=== Search Results ===\n" + header +
		"1     Inception                 Sci-Fi          2010   9.0     148        Christopher Nolan\n" +
		"2     Interstellar              Sci-Fi          2014   8.6     169        Christopher Nolan\n" +
		"5     The Dark Knight           Action          2008   9.0     152        Christopher Nolan\n"
	assert.Contains(t, out, search)

	assert.Contains(t, out, "Enter movie title: Enter genre: Enter release year: "+
		"Enter rating (0.0 - 10.0): Enter duration (in minutes): Enter director's name: "+
		"Movie added successfully!\n")

	assert.Contains(t, out, "Enter movie ID to delete: Movie deleted successfully!\n")
	assert.Contains(t, out, "Enter movie ID to delete: Movie not found!\n")

	assert.Contains(t, out, "Enter a movie you like for recommendation: \n"+
		"Because you liked 'inception' (Sci-Fi), you may also like:\n"+
		"The Matrix - Rating: 8.7\n")
	assert.NotContains(t, out, "Interstellar - Rating")
	assert.Contains(t, out, "Enter a movie you like for recommendation: Movie not found!\n")

	assert.Contains(t, out, "Movies exported to 'movies_export.txt'\n")
	assert.True(t, strings.HasSuffix(out, "Exiting... Goodbye!\n"))

	data, err := afero.ReadFile(fs, "movies_export.txt")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Heat")
	assert.NotContains(t, string(data), "Interstellar")
	assert.Equal(t, 8, strings.Count(string(data), "\n"))
}

func TestMenuViewEmptyCatalog(t *testing.T) {
	fs := afero.NewMemMapFs()
	catalog := services.NewCatalog(test.GetTestDB(t), report.NewExporter(fs, "movies_export.txt"),
		services.WithLogger(logging.NewLogger(logging.ErrorLevel, io.Discard)))

	out, err := run(t, catalog, "2\n3\nanything\n5\n7\n")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "No movies found!\n"))
	assert.Contains(t, out, "No movies to export!\n")

	exists, err := afero.Exists(fs, "movies_export.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMenuRecoverableErrors(t *testing.T) {
	catalog, _ := newSeededCatalog(t)

	out, err := run(t, catalog, "1\n\nDrama\n\n\n\n\n4\nabc\n6\nParasite\n2\n7\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: title is required\n")
	assert.Contains(t, out, "Error: movie id must be a whole number\n")
	assert.Contains(t, out, "No recommendations found!\n")
	assert.Contains(t, out, "\n=== Movies ===\n")
	assert.NotContains(t, out, "Movie added successfully!")
}

type unavailableCatalog struct {
	listCalls int
}

func (c *unavailableCatalog) AddMovie(context.Context, services.MovieInput) (*models.Movie, error) {
	return nil, nil
}

func (c *unavailableCatalog) ListMovies(context.Context) ([]models.Movie, error) {
	c.listCalls++
	return nil, &database.UnavailableError{Err: errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")}
}

func (c *unavailableCatalog) SearchMovies(context.Context, string) ([]models.Movie, error) {
	return nil, nil
}

func (c *unavailableCatalog) DeleteMovie(context.Context, string) error { return nil }

func (c *unavailableCatalog) ExportMovies(context.Context) (int, error) { return 0, nil }

func (c *unavailableCatalog) ExportPath() string { return "" }

func (c *unavailableCatalog) Recommend(context.Context, string) (*models.Recommendation, error) {
	return nil, nil
}

func TestMenuUnavailableStoreEndsSession(t *testing.T) {
	catalog := &unavailableCatalog{}

	out, err := run(t, catalog, "2\n2\n7\n")
	require.Error(t, err)
	assert.True(t, database.IsUnavailable(err))
	assert.Equal(t, 1, catalog.listCalls)
	assert.NotContains(t, out, "Goodbye")
}
