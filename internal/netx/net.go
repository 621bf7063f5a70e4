// Package netx contains plain-HTTP helpers that sit outside the JSON API
// client, currently just media downloads.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// DownloadToDir fetches url and writes the body to dir using the URL's base
// name. Returns the path of the written file.
func DownloadToDir(ctx context.Context, url string, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	name := filepath.Base(req.URL.Path)
	if name == "." || name == "/" {
		name = "media"
	}
	dest := filepath.Join(dir, name)

	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	return dest, nil
}
