// Package download fetches the Python interpreter module.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Fetch downloads url to output. An existing output is left alone and
// reported as not fetched.
func Fetch(ctx context.Context, url, output string) (fetched bool, err error) {
	if _, err := os.Stat(output); err == nil {
		return false, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("download failed: %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return false, err
	}
	f, err := os.CreateTemp(filepath.Dir(output), ".download-*")
	if err != nil {
		return false, err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return false, err
	}
	if err := f.Close(); err != nil {
		return false, err
	}
	if err := os.Rename(tmp, output); err != nil {
		return false, err
	}
	return true, nil
}
