// Package download fetches descriptor documents over HTTP or from a filesystem.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hack-pad/hackpadfs"
	osfs "github.com/hack-pad/hackpadfs/os"
)

const (
	defaultUserAgent = "meshworld/1.0"
	defaultTimeout   = 60 * time.Second
	// maxDocumentSize bounds how much of a response or file is read.
	maxDocumentSize = 8 << 20
)

// Fetcher reads documents from http(s) URLs, file:// URLs or plain paths.
type Fetcher struct {
	Client    *http.Client
	FS        hackpadfs.FS
	UserAgent string

	// rooted is true when FS is the host filesystem, whose names are absolute paths
	// without the leading slash.
	rooted bool
}

// New returns a Fetcher backed by the host filesystem and an HTTP client with a timeout.
func New() *Fetcher {
	return &Fetcher{
		Client:    &http.Client{Timeout: defaultTimeout},
		FS:        osfs.NewFS(),
		UserAgent: defaultUserAgent,
		rooted:    true,
	}
}

// NewWithFS returns a Fetcher that resolves local names inside fsys as given.
func NewWithFS(fsys hackpadfs.FS) *Fetcher {
	f := New()
	f.FS = fsys
	f.rooted = false
	return f
}

// Fetch returns the contents of rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return f.fetchHTTP(ctx, rawURL)
	}
	name := rawURL
	if err == nil && u.Scheme == "file" {
		name = u.Path
	}
	return f.readFile(ctx, name)
}

func (f *Fetcher) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "application/json")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("download: %s exceeds %d bytes", rawURL, maxDocumentSize)
	}
	return data, nil
}

func (f *Fetcher) readFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	resolved, err := f.resolve(name)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	data, err := hackpadfs.ReadFile(f.FS, resolved)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("download: %s exceeds %d bytes", name, maxDocumentSize)
	}
	return data, nil
}

// resolve maps a local path onto a hackpadfs name (slash separated, no leading slash).
func (f *Fetcher) resolve(name string) (string, error) {
	if f.rooted {
		abs, err := filepath.Abs(name)
		if err != nil {
			return "", err
		}
		abs = filepath.ToSlash(abs)
		if vol := filepath.VolumeName(abs); vol != "" {
			abs = abs[len(vol):]
		}
		return strings.TrimPrefix(abs, "/"), nil
	}
	clean := path.Clean("/" + filepath.ToSlash(name))
	return strings.TrimPrefix(clean, "/"), nil
}
