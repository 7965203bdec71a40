package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DatasetHTTP fetches the benchmark dataset with a single GET returning a
// JSON array of records.
type DatasetHTTP struct {
	URL    string
	client *http.Client
}

func NewDatasetHTTP(url string, timeout time.Duration) *DatasetHTTP {
	return &DatasetHTTP{URL: url, client: &http.Client{Timeout: timeout}}
}

func (d *DatasetHTTP) Fetch(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, &DatasetFetchError{URL: d.URL, Cause: err}
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &DatasetFetchError{URL: d.URL, Cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &DatasetFetchError{
			URL:   d.URL,
			Cause: fmt.Errorf("unexpected status code %v: %v", resp.StatusCode, string(body)),
		}
	}
	records := make([]Record, 0)
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &DatasetFetchError{URL: d.URL, Cause: fmt.Errorf("decode dataset: %w", err)}
	}
	Logger.Infof("fetched dataset with %v records from %v", len(records), d.URL)
	return records, nil
}
