package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// StatusError is returned when Chroma answers with an unexpected status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chroma %s failed (status %d): %s", e.Op, e.StatusCode, e.Body)
}

func (e *StatusError) HTTPStatusCode() int {
	return e.StatusCode
}

type Config struct {
	URL        string
	Tenant     string // default: "default_tenant"
	Database   string // default: "default_database"
	Collection string // default: "langchain"
	Token      string
	Timeout    time.Duration
}

type Collection struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Metadata map[string]any `json:"metadata"`
}

// QueryResponse holds one row per query embedding; we always send one.
type QueryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]*string        `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float32        `json:"distances"`
}

// Client wraps the ChromaDB v2 REST API for a single collection.
type Client struct {
	httpClient *http.Client
	rootURL    string
	baseURL    string
	collection string
	token      string

	mu           sync.Mutex
	collectionID string
}

func NewClient(cfg Config) *Client {
	if cfg.Tenant == "" {
		cfg.Tenant = "default_tenant"
	}
	if cfg.Database == "" {
		cfg.Database = "default_database"
	}
	if cfg.Collection == "" {
		cfg.Collection = "langchain"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	// v2 API scopes collections by tenant and database in the path
	root := strings.TrimRight(cfg.URL, "/")
	base := fmt.Sprintf("%s/api/v2/tenants/%s/databases/%s",
		root, url.PathEscape(cfg.Tenant), url.PathEscape(cfg.Database))

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		rootURL:    root,
		baseURL:    base,
		collection: cfg.Collection,
		token:      cfg.Token,
	}
}

// Ping checks the server heartbeat.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "heartbeat", http.MethodGet, c.rootURL+"/api/v2/heartbeat", nil, nil)
}

// CollectionID resolves the configured collection name. A successful lookup
// is cached; failures are retried on the next call.
func (c *Client) CollectionID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.collectionID != "" {
		return c.collectionID, nil
	}

	var col Collection
	u := fmt.Sprintf("%s/collections/%s", c.baseURL, url.PathEscape(c.collection))
	if err := c.do(ctx, "get collection", http.MethodGet, u, nil, &col); err != nil {
		return "", err
	}
	if col.ID == "" {
		return "", fmt.Errorf("collection %q has no id", c.collection)
	}

	c.collectionID = col.ID
	return col.ID, nil
}

// Query returns the nResults nearest neighbours of embedding, closest first.
func (c *Client) Query(ctx context.Context, embedding []float32, nResults int, where map[string]any) (*QueryResponse, error) {
	id, err := c.CollectionID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve collection: %w", err)
	}

	payload := map[string]any{
		"query_embeddings": [][]float32{embedding},
		"n_results":        nResults,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	if where != nil {
		payload["where"] = where
	}

	var resp QueryResponse
	u := fmt.Sprintf("%s/collections/%s/query", c.baseURL, id)
	if err := c.do(ctx, "query", http.MethodPost, u, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, op, method, u string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("X-Chroma-Token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chroma %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
