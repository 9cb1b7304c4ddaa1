// Package seeclickfix ingests the SeeClickFix issue feed: fetch the JSON
// feed, parse entries into rack records, drop everything at or before the
// stored watermark, persist the rest and advance the watermark. Runs are
// batch-style and single-writer; the external scheduler (cron) owns retries.
package seeclickfix

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TransportError means the feed could not be retrieved. It is fatal to the
// run: no records are processed and no state is mutated.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feed fetch %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("feed fetch %s returned status %d", e.URL, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client fetches the SeeClickFix JSON feed.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch retrieves the feed and decodes it into entries. Anything other than
// a 200 response is a TransportError. Entry order is preserved as returned by
// the feed; it is not assumed sorted.
func (c *Client) Fetch(ctx context.Context, feedURL string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: feedURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{URL: feedURL, Status: resp.StatusCode}
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode feed body: %w", err)
	}
	return entries, nil
}
