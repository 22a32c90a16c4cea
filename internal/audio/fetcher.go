// Package audio downloads episode audio into transient storage.
package audio

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var supportedExtensions = map[string]bool{
	".mp3": true, ".m4a": true, ".wav": true, ".ogg": true, ".webm": true,
}

// ErrTooLarge is returned when a download exceeds the configured size cap.
type ErrTooLarge struct {
	Max int64
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("file too large (>%.1fMB)", float64(e.Max)/1024/1024)
}

// Fetcher downloads audio files to temporary storage with a size limit.
type Fetcher struct {
	client   *http.Client
	dir      string
	maxBytes int64
}

func NewFetcher(dir string, maxBytes int64) *Fetcher {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: 5 * time.Minute,
		},
		dir:      dir,
		maxBytes: maxBytes,
	}
}

// Fetch streams the audio at url into a temporary file and returns its path.
// The partial file is removed on any failure; on success the caller owns the
// file and must release it with Cleanup.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	ext := strings.ToLower(path.Ext(strings.Split(url, "?")[0]))
	if !supportedExtensions[ext] {
		ext = ".mp3"
	}
	dest := filepath.Join(f.dir, uuid.New().String()+ext)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("failed to download audio: HTTP %d", resp.StatusCode)
	}
	if resp.ContentLength > f.maxBytes {
		return "", &ErrTooLarge{Max: f.maxBytes}
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	// Read one byte past the cap so an exactly-at-limit file still passes.
	written, err := io.Copy(out, io.LimitReader(resp.Body, f.maxBytes+1))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > f.maxBytes {
		err = &ErrTooLarge{Max: f.maxBytes}
	}
	if err != nil {
		os.Remove(dest)
		return "", err
	}

	return dest, nil
}

// Cleanup removes a downloaded file. Errors are logged, never propagated, so
// a failed release cannot mask the pipeline's primary error.
func (f *Fetcher) Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove temp audio file %s: %v", path, err)
	}
}
