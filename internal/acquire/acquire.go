// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads the crosswalk PDF into a local cache.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/pdiddy/crosswalk/internal/httputil"
	"github.com/pdiddy/crosswalk/pkg/types"
)

const defaultFileName = "source.pdf"

// CachePath returns the local file a source URL is cached at:
// cacheDir joined with the last path segment of the URL.
func CachePath(cacheDir, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing source URL %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		name = defaultFileName
	}
	return filepath.Join(cacheDir, name), nil
}

// Fetch makes sure the PDF at cfg.URL is present under cfg.CacheDir and
// returns its local path. When the file is already cached and cfg.Refresh is
// false the download is skipped and skipped is true. Any failure to reach
// the document is reported as a *types.ExtractionError.
func Fetch(ctx context.Context, client *http.Client, cfg types.SourceConfig, w io.Writer) (pdfPath string, skipped bool, err error) {
	if cfg.URL == "" {
		return "", false, &types.ExtractionError{Source: cfg.URL, Err: errors.New("no source URL configured")}
	}
	pdfPath, err = CachePath(cfg.CacheDir, cfg.URL)
	if err != nil {
		return "", false, &types.ExtractionError{Source: cfg.URL, Err: err}
	}

	if !cfg.Refresh {
		if info, statErr := os.Stat(pdfPath); statErr == nil && info.Size() > 0 {
			fmt.Fprintf(w, "skipped: %s (already cached)\n", pdfPath)
			return pdfPath, true, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(pdfPath), 0o755); err != nil {
		return "", false, fmt.Errorf("creating directory %s: %w", filepath.Dir(pdfPath), err)
	}

	fmt.Fprintf(w, "downloading: %s\n", cfg.URL)
	if err := downloadFile(ctx, client, cfg.URL, pdfPath, cfg.HTTPConfig); err != nil {
		return "", false, &types.ExtractionError{Source: cfg.URL, Err: err}
	}
	return pdfPath, false, nil
}

// downloadFile fetches url to destPath using a temporary file that is
// renamed into place only after the body has been fully written.
func downloadFile(ctx context.Context, client *http.Client, url, destPath string, cfg types.HTTPConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".acquire-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	n, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if n == 0 {
		os.Remove(tmpPath)
		return fmt.Errorf("empty response body from %s", url)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
