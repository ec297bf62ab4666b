package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// fetcher performs the two origin operations. It never touches the cache
// and makes exactly one attempt per call; retry policy belongs to the
// caller's surrounding system, not here.
type fetcher struct {
	baseURL string
	httpc   *http.Client
}

// fetchOne retrieves a single flag by key.
// A 404 maps to ErrNotFound; any other failure maps to *TransportError.
func (f *fetcher) fetchOne(ctx context.Context, key string) (*FlagRecord, error) {
	endpoint := f.baseURL + "/api/flags/key/" + url.PathEscape(key)

	resp, err := f.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("flag %q: %w", key, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Status: resp.StatusCode}
	}

	var record FlagRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decode flag: %w", err)}
	}
	return &record, nil
}

// fetchAll retrieves every flag. An empty list is a valid success.
func (f *fetcher) fetchAll(ctx context.Context) ([]FlagRecord, error) {
	resp, err := f.get(ctx, f.baseURL+"/api/flags")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Status: resp.StatusCode}
	}

	var records []FlagRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decode flags: %w", err)}
	}
	return records, nil
}

func (f *fetcher) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpc.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return resp, nil
}
