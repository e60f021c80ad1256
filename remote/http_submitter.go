package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fieldops/talktracker/models"
)

// HTTPSubmitter posts talk records to a remote endpoint as JSON.
type HTTPSubmitter struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

// HTTPConfig holds remote endpoint configuration
type HTTPConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// NewHTTPSubmitter creates a new HTTP submitter for the given endpoint.
func NewHTTPSubmitter(cfg HTTPConfig) (*HTTPSubmitter, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &HTTPSubmitter{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
		timeout:  timeout,
	}, nil
}

// Submit posts one record. A timeout or non-2xx status is a failure; the
// caller keeps the record pending and stops draining.
func (s *HTTPSubmitter) Submit(ctx context.Context, record *models.TalkRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode talk record: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit talk record %s: %w", record.ID, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("remote rejected talk record %s: status %d", record.ID, resp.StatusCode)
	}
	return nil
}

// Online probes the endpoint with a HEAD request. Any response at all
// counts as reachable; only transport errors mean offline.
func (s *HTTPSubmitter) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.endpoint, nil)
	if err != nil {
		return false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
