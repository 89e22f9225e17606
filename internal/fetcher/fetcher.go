// Package fetcher downloads TIGER/Line archives from the Census Bureau over
// HTTP or the FTP mirror, with retry, backoff, and per-host rate limiting.
package fetcher

import (
	"context"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// Dispatcher routes downloads to an HTTP or FTP fetcher by URL scheme.
type Dispatcher struct {
	HTTP Fetcher
	FTP  Fetcher
}

// NewDispatcher builds a Dispatcher with default HTTP and FTP fetchers.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		HTTP: NewHTTPFetcher(HTTPOptions{}),
		FTP:  NewFTPFetcher(FTPOptions{}),
	}
}

func (d *Dispatcher) forURL(url string) (Fetcher, error) {
	switch {
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return d.HTTP, nil
	case strings.HasPrefix(url, "ftp://"):
		return d.FTP, nil
	default:
		return nil, eris.Errorf("fetcher: unsupported url scheme in %q", url)
	}
}

// Download fetches the URL with the fetcher matching its scheme.
func (d *Dispatcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	f, err := d.forURL(url)
	if err != nil {
		return nil, err
	}
	return f.Download(ctx, url)
}

// DownloadToFile fetches the URL to a local file with the fetcher matching
// its scheme.
func (d *Dispatcher) DownloadToFile(ctx context.Context, url string, path string) (int64, error) {
	f, err := d.forURL(url)
	if err != nil {
		return 0, err
	}
	return f.DownloadToFile(ctx, url, path)
}
