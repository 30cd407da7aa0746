package csvsource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/campus-tree-forest/internal/domain"
)

// Source fetches the census CSV from a local path or an http(s) URL.
// It implements pipeline.Extractor.
type Source struct {
	location   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSource creates a Source for location. timeout bounds remote fetches.
func NewSource(location string, timeout time.Duration, logger *slog.Logger) *Source {
	return &Source{
		location: location,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Location returns the configured path or URL.
func (s *Source) Location() string {
	return s.location
}

// Extract fetches and parses the whole document.
func (s *Source) Extract(ctx context.Context) (domain.Census, error) {
	body, err := s.open(ctx)
	if err != nil {
		return domain.Census{}, err
	}
	defer body.Close()

	census, err := Parse(body)
	if err != nil {
		return domain.Census{}, fmt.Errorf("parse %s: %w", s.location, err)
	}
	if census.Skipped > 0 {
		s.logger.Warn("skipped malformed csv lines", "source", s.location, "skipped", census.Skipped)
	}
	s.logger.Debug("census parsed", "source", s.location, "records", len(census.Records))
	return census, nil
}

func (s *Source) open(ctx context.Context) (io.ReadCloser, error) {
	if !isRemote(s.location) {
		f, err := os.Open(s.location)
		if err != nil {
			return nil, fmt.Errorf("open census file: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch census: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch census: status %d: %s", resp.StatusCode, body)
	}
	return resp.Body, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
