package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"
)

// MaxInsertRows is the largest batch sent in one insert request.
const MaxInsertRows = 100

// DatasetteClient pushes history rows to a remote Datasette instance
// running the datasette-insert plugin. Tables are created by the plugin on
// first insert.
type DatasetteClient struct {
	baseURL  *url.URL
	rawURL   string
	apiToken string
	client   *http.Client
}

func NewDatasetteClient(baseURL, apiToken string) *DatasetteClient {
	return &DatasetteClient{
		rawURL:   baseURL,
		apiToken: apiToken,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Connect validates the base URL; no request is made.
func (c *DatasetteClient) Connect(context.Context) error {
	u, err := url.Parse(c.rawURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL %q: want an http or https URL", c.rawURL)
	}
	c.baseURL = u
	return nil
}

func (c *DatasetteClient) CreateTable(context.Context, string) error {
	return nil
}

// BatchInsert posts records in chunks of MaxInsertRows. Chunks already sent
// stay written when a later one fails.
func (c *DatasetteClient) BatchInsert(ctx context.Context, database, table string, records []map[string]any) error {
	if c.baseURL == nil {
		return fmt.Errorf("datasette client not connected")
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "-/insert", database, table)

	for start := 0; start < len(records); start += MaxInsertRows {
		end := min(start+MaxInsertRows, len(records))
		if err := c.post(ctx, endpoint.String(), records[start:end]); err != nil {
			return fmt.Errorf("rows %d-%d: %w", start+1, end, err)
		}
	}
	return nil
}

func (c *DatasetteClient) post(ctx context.Context, endpoint string, rows []map[string]any) error {
	body, err := json.Marshal(map[string]any{"rows": rows})
	if err != nil {
		return fmt.Errorf("failed to marshal JSON payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		return nil
	}

	var apiErr struct {
		Error  string   `json:"error"`
		Errors []string `json:"errors"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &apiErr) == nil {
		switch {
		case apiErr.Error != "":
			return fmt.Errorf("datasette returned %d: %s", resp.StatusCode, apiErr.Error)
		case len(apiErr.Errors) > 0:
			return fmt.Errorf("datasette returned %d: %v", resp.StatusCode, apiErr.Errors)
		}
	}
	return fmt.Errorf("datasette returned status %d", resp.StatusCode)
}

func (c *DatasetteClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
