package documents

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Fetcher downloads attachment bytes through the shared HTTP client.
type Fetcher struct {
	client *http.Client
	config *DocumentsConfig
}

func NewFetcher(client *http.Client, config *DocumentsConfig) *Fetcher {
	return &Fetcher{client: client, config: config}
}

func (x *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build attachment request: %w", err)
	}

	response, err := x.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, Status: response.StatusCode}
	}

	var body io.Reader = response.Body
	if x.config.MaxBytes > 0 {
		body = io.LimitReader(response.Body, x.config.MaxBytes+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	if x.config.MaxBytes > 0 && int64(len(data)) > x.config.MaxBytes {
		size := response.ContentLength
		if size < int64(len(data)) {
			size = int64(len(data))
		}
		return nil, &TooLargeError{Size: size, Limit: x.config.MaxBytes}
	}

	return data, nil
}
