package calibration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Source fetches a named calibration document. Implementations are invoked
// at most once per document per process.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// FileSource reads calibration documents from a directory of static assets.
type FileSource struct {
	Dir string
}

// NewFileSource creates a source backed by a local directory.
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

// Fetch reads a document from disk.
func (s *FileSource) Fetch(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read calibration document %s: %w", name, err)
	}
	return data, nil
}

// HTTPSourceConfig holds configuration for the HTTP calibration source.
type HTTPSourceConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	RateLimit    float64 // requests per second
}

// DefaultHTTPSourceConfig returns recommended defaults.
func DefaultHTTPSourceConfig(baseURL string) HTTPSourceConfig {
	return HTTPSourceConfig{
		BaseURL:      baseURL,
		Timeout:      10 * time.Second,
		MaxRetries:   3,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
		RateLimit:    5.0,
	}
}

// HTTPSource fetches calibration documents from a config service or static
// asset host, with retries and rate limiting.
type HTTPSource struct {
	baseURL string
	apiKey  string
	client  *retryablehttp.Client
	limiter *rate.Limiter
}

// NewHTTPSource creates a rate-limited retrying HTTP source.
func NewHTTPSource(cfg HTTPSourceConfig) *HTTPSource {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = nil

	return &HTTPSource{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
	}
}

// Fetch retrieves a document over HTTP.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	url := s.baseURL + "/" + name
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calibration document %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calibration document %s: unexpected status %d", name, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
