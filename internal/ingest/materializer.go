package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"podcast-ingest/internal/models"
)

// DownloadError is the failure to fetch one enclosure. Other items of the
// same batch are still attempted.
type DownloadError struct {
	Link     string
	URL      string
	Filename string
	Err      error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download %s for %s: %v", e.Filename, e.Link, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Materializer makes sure every requested episode has a local audio file.
type Materializer struct {
	client *http.Client
	folder string
}

func NewMaterializer(client *http.Client, folder string) *Materializer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Materializer{client: client, folder: folder}
}

// Folder is the directory files are written to.
func (m *Materializer) Folder() string {
	return m.folder
}

// Materialize processes requests in order. A file that already exists is
// never fetched again, whatever its content. It returns a MaterializedFile
// for every request whose file exists afterwards, and the errors.Join of
// every *DownloadError.
func (m *Materializer) Materialize(ctx context.Context, requests []models.AssetRequest) ([]models.MaterializedFile, error) {
	if err := os.MkdirAll(m.folder, 0755); err != nil {
		return nil, fmt.Errorf("create episode folder: %w", err)
	}

	files := make([]models.MaterializedFile, 0, len(requests))
	var errs []error
	for _, req := range requests {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		path := filepath.Join(m.folder, req.Filename)
		if _, err := os.Stat(path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, &DownloadError{Link: req.Link, URL: req.EnclosureURL, Filename: req.Filename, Err: err})
				continue
			}
			log.Printf("Downloading %s", req.Filename)
			if err := m.download(ctx, req.EnclosureURL, path); err != nil {
				errs = append(errs, &DownloadError{Link: req.Link, URL: req.EnclosureURL, Filename: req.Filename, Err: err})
				continue
			}
		}

		files = append(files, models.MaterializedFile{Link: req.Link, Filename: req.Filename})
	}

	return files, errors.Join(errs...)
}

// download streams url into a temporary file next to path and renames it
// into place, so path only ever appears complete.
func (m *Materializer) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "podcast-ingest/1.0")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
