package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"penguinlens/internal/dataset"
	"penguinlens/pkg/platform/sentinel"
)

// DefaultURL is the public copy of the penguins table.
const DefaultURL = "https://raw.githubusercontent.com/mwaskom/seaborn-data/master/penguins.csv"

// maxDownloadBytes bounds the body we are willing to parse.
const maxDownloadBytes = 8 << 20

// HTTP downloads the dataset as CSV from a URL.
type HTTP struct {
	URL    string
	Client *http.Client
}

func NewHTTP(url string, client *http.Client) *HTTP {
	if url == "" {
		url = DefaultURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{URL: url, Client: client}
}

func (h *HTTP) Name() string {
	return "http:" + h.URL
}

func (h *HTTP) FetchRaw(ctx context.Context) ([]dataset.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build dataset request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain")

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetch dataset: status %d: %w", resp.StatusCode, sentinel.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch dataset: unexpected status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read dataset body: %w: %w", sentinel.ErrUnavailable, err)
	}
	if len(body) > maxDownloadBytes {
		return nil, fmt.Errorf("fetch dataset: body exceeds %d bytes: %w", maxDownloadBytes, sentinel.ErrUnavailable)
	}
	return ReadCSV(bytes.NewReader(body))
}
