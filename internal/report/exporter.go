package report

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"moviecatalog/internal/models"
)

// ErrChecksumMismatch means the export file does not hold what was written
var ErrChecksumMismatch = errors.New("export checksum mismatch")

// Exporter writes the catalog table to a file
type Exporter struct {
	fs   afero.Fs
	path string
}

// NewExporter creates an exporter targeting path on fs
func NewExporter(fs afero.Fs, path string) *Exporter {
	return &Exporter{fs: fs, path: path}
}

// Path returns the export destination
func (e *Exporter) Path() string {
	return e.path
}

// Export truncates the destination, writes the table and returns the SHA256 of
// the written bytes. Callers skip it for an empty catalog so an existing file is
// left alone.
func (e *Exporter) Export(movies []models.Movie) (string, error) {
	if dir := filepath.Dir(e.path); dir != "." {
		if err := e.fs.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	f, err := e.fs.OpenFile(e.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to open export file: %w", err)
	}

	hash := sha256.New()
	if err := WriteTable(io.MultiWriter(f, hash), movies); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// Checksum returns the SHA256 of the file currently at the export path
func (e *Exporter) Checksum() (string, error) {
	f, err := e.fs.Open(e.path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", fmt.Errorf("failed to calculate checksum: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// Verify compares the file at the export path against the digest Export returned
func (e *Exporter) Verify(want string) error {
	got, err := e.Checksum()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: %s", ErrChecksumMismatch, e.path)
	}
	return nil
}
