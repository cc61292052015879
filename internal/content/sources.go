package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/valarz/go-press/internal/shards"
)

const (
	shardScheme = "shards:"

	// DefaultFetchTimeout bounds a baseline HTTP request.
	DefaultFetchTimeout = 10 * time.Second
	maxBaselineBytes    = 32 << 20
)

// Source fetches the baseline payload for one collection.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Location() string
}

// Sources names the baseline location for each collection. A nil source
// bootstraps the collection empty.
type Sources struct {
	Articles   Source
	Categories Source
}

// SourceOptions tunes sources built by ResolveSource.
type SourceOptions struct {
	Timeout time.Duration
	Client  *http.Client
}

// ResolveSource builds a Source from a location string: a filesystem path or
// file:// URL, an http(s) URL, or shards:<dir> for an ingestion output
// directory. An empty location yields a nil Source.
func ResolveSource(location string, opts SourceOptions) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, nil
	}

	switch {
	case strings.HasPrefix(location, shardScheme):
		dir := strings.TrimSpace(strings.TrimPrefix(location, shardScheme))
		if dir == "" {
			return nil, fmt.Errorf("%w: %q has no directory", ErrSourceLocation, location)
		}
		return ShardSource{Dir: dir}, nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		if _, err := url.Parse(location); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceLocation, err)
		}
		return NewHTTPSource(location, opts), nil
	case strings.HasPrefix(location, "file://"):
		parsed, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceLocation, err)
		}
		path := parsed.Path
		if parsed.Host != "" && parsed.Host != "localhost" {
			path = parsed.Host + path
		}
		return FileSource{Path: path}, nil
	case strings.Contains(location, "://"):
		return nil, fmt.Errorf("%w: %q", ErrSourceLocation, location)
	default:
		return FileSource{Path: location}, nil
	}
}

// FileSource reads a baseline document from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Location() string { return s.Path }

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("content: read baseline %s: %w", s.Path, err)
	}
	return data, nil
}

// HTTPSource fetches a baseline document with a single GET request.
type HTTPSource struct {
	URL    string
	client *http.Client
}

// NewHTTPSource returns an HTTPSource. Without a client in opts a new one is
// created with opts.Timeout, or DefaultFetchTimeout when unset.
func NewHTTPSource(rawURL string, opts SourceOptions) *HTTPSource {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultFetchTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPSource{URL: rawURL, client: client}
}

func (s *HTTPSource) Location() string { return s.URL }

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("content: build baseline request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content: fetch baseline %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("content: fetch baseline %s: unexpected status %d", s.URL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBaselineBytes))
	if err != nil {
		return nil, fmt.Errorf("content: read baseline %s: %w", s.URL, err)
	}
	return data, nil
}

// ShardSource exposes the articles of an ingestion output directory as one
// flat collection, in shard index order.
type ShardSource struct {
	Dir string
}

func (s ShardSource) Location() string { return shardScheme + s.Dir }

func (s ShardSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	articles, err := shards.ReadAll(s.Dir)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(articles)
	if err != nil {
		return nil, fmt.Errorf("content: encode shard articles: %w", err)
	}
	return data, nil
}
