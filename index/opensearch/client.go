package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Baricodes/AWS-AI-Assitant/core"
	"github.com/Baricodes/AWS-AI-Assitant/index"
)

// Client is a minimal REST client to an OpenSearch kNN index.
// It assumes cosine similarity and creates the index if missing.
//
// Record IDs are "<doc_id>-<chunk_id>", so a second upsert for the same
// chunk replaces the previous document instead of adding a new one.
type Client struct {
	endpoint string
	indexN   string
	username string
	password string
	client   *http.Client
	logger   *slog.Logger
}

var _ index.Store = (*Client)(nil)

// Config configures the OpenSearch client.
type Config struct {
	// Endpoint is the base URL, e.g. "https://search-xyz.example.com".
	Endpoint string

	// Index is the target index name, e.g. "kb_chunks".
	Index string

	// Username and Password are optional basic-auth credentials.
	// Request signing (SigV4 etc.) is an external concern and belongs in
	// a custom http.RoundTripper if needed.
	Username string
	Password string

	// Timeout is the per-call HTTP timeout. Default: 15s.
	Timeout time.Duration
}

// NewClient creates an OpenSearch-backed vector index client.
//
// Returns index.Store interface to enforce abstraction.
func NewClient(cfg Config) (index.Store, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("opensearch: endpoint is required")
	}
	if cfg.Index == "" {
		return nil, errors.New("opensearch: index name is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		indexN:   cfg.Index,
		username: cfg.Username,
		password: cfg.Password,
		client:   &http.Client{Timeout: timeout},
		logger:   slog.Default().With("component", "opensearch"),
	}, nil
}

// chunkDoc is the wire form of a chunk record. Field names match the index
// mapping exactly.
type chunkDoc struct {
	Embedding  []float32 `json:"embedding"`
	ChunkText  string    `json:"chunk_text"`
	DocID      string    `json:"doc_id"`
	ChunkID    int       `json:"chunk_id"`
	Title      string    `json:"title"`
	Section    string    `json:"section"`
	Source     string    `json:"source"`
	S3Key      string    `json:"s3_key"`
	URL        string    `json:"url"`
	Tags       []string  `json:"tags"`
	TokenCount int       `json:"token_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func docFromChunk(chunk *core.Chunk) chunkDoc {
	return chunkDoc{
		Embedding:  chunk.Embedding,
		ChunkText:  chunk.Text,
		DocID:      chunk.DocID,
		ChunkID:    chunk.ChunkID,
		Title:      chunk.Title,
		Section:    chunk.Section,
		Source:     chunk.Source,
		S3Key:      chunk.S3Key,
		URL:        chunk.URL,
		Tags:       chunk.Tags,
		TokenCount: chunk.TokenCount,
		CreatedAt:  chunk.CreatedAt,
		UpdatedAt:  chunk.UpdatedAt,
	}
}

func (d chunkDoc) toChunk() core.Chunk {
	return core.Chunk{
		DocID:      d.DocID,
		ChunkID:    d.ChunkID,
		Text:       d.ChunkText,
		TokenCount: d.TokenCount,
		Embedding:  d.Embedding,
		Title:      d.Title,
		Section:    d.Section,
		Source:     d.Source,
		S3Key:      d.S3Key,
		URL:        d.URL,
		Tags:       d.Tags,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func recordID(docID string, chunkID int) string {
	return fmt.Sprintf("%s-%d", docID, chunkID)
}

// EnsureIndex creates the vector index if it doesn't exist.
// A concurrent creation race resolves to success: resource_already_exists
// from the losing writer is treated as created.
func (c *Client) EnsureIndex(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodHead, "/"+c.indexN, nil)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		c.logger.Debug("index already exists", "index", c.indexN)
		return nil
	}
	if status != http.StatusNotFound {
		return classifyStatus("index.ensure", status, nil)
	}

	c.logger.Info("creating index", "index", c.indexN)
	status, body, err := c.do(ctx, http.MethodPut, "/"+c.indexN, strings.NewReader(indexMapping()))
	if err != nil {
		return err
	}
	if status < 300 {
		return nil
	}
	if status == http.StatusBadRequest && bytes.Contains(body, []byte("resource_already_exists_exception")) {
		c.logger.Debug("index created concurrently", "index", c.indexN)
		return nil
	}
	return classifyStatus("index.ensure", status, body)
}

// Upsert writes a chunk record, replacing any previous record with the
// same (doc_id, chunk_id).
func (c *Client) Upsert(ctx context.Context, chunk *core.Chunk) error {
	if err := core.ValidateChunk(chunk); err != nil {
		return core.NewError(core.KindPermanent, "index.upsert", err)
	}

	payload, err := json.Marshal(docFromChunk(chunk))
	if err != nil {
		return core.NewError(core.KindPermanent, "index.upsert", err)
	}

	path := fmt.Sprintf("/%s/_doc/%s", c.indexN, recordID(chunk.DocID, chunk.ChunkID))
	status, body, err := c.do(ctx, http.MethodPut, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	if status >= 300 {
		return classifyStatus("index.upsert", status, body)
	}
	c.logger.Debug("upserted chunk", "docID", chunk.DocID, "chunkID", chunk.ChunkID)
	return nil
}

// Delete removes the record keyed by (docID, chunkID). Missing records are
// not an error.
func (c *Client) Delete(ctx context.Context, docID string, chunkID int) error {
	path := fmt.Sprintf("/%s/_doc/%s", c.indexN, recordID(docID, chunkID))
	status, body, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	if status >= 300 && status != http.StatusNotFound {
		return classifyStatus("index.delete", status, body)
	}
	return nil
}

// Query performs a kNN search and returns chunks sorted by descending
// cosine similarity score.
func (c *Client) Query(ctx context.Context, embedding []float32, k int, filters map[string]string) ([]core.ScoredChunk, error) {
	if k <= 0 {
		return nil, core.NewError(core.KindPermanent, "index.query", index.ErrInvalidK)
	}
	if len(embedding) != core.EmbeddingDim {
		return nil, core.NewError(core.KindPermanent, "index.query", index.ErrInvalidDimension)
	}

	knn := map[string]any{
		"knn": map[string]any{
			"embedding": map[string]any{
				"vector": embedding,
				"k":      k,
			},
		},
	}
	var query map[string]any
	if len(filters) == 0 {
		query = knn
	} else {
		filter := make([]map[string]any, 0, len(filters))
		for field, value := range filters {
			filter = append(filter, map[string]any{"term": map[string]any{field: value}})
		}
		query = map[string]any{
			"bool": map[string]any{
				"must":   []any{knn},
				"filter": filter,
			},
		}
	}

	payload, err := json.Marshal(map[string]any{"size": k, "query": query})
	if err != nil {
		return nil, core.NewError(core.KindPermanent, "index.query", err)
	}

	status, body, err := c.do(ctx, http.MethodPost, "/"+c.indexN+"/_search", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, classifyStatus("index.query", status, body)
	}

	var resp struct {
		Hits struct {
			Hits []struct {
				Score  float64  `json:"_score"`
				Source chunkDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, core.NewError(core.KindPermanent, "index.query", err)
	}

	results := make([]core.ScoredChunk, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		results = append(results, core.ScoredChunk{
			Chunk: hit.Source.toChunk(),
			Score: hit.Score,
		})
	}
	c.logger.Debug("knn search completed", "k", k, "returned", len(results))
	return results, nil
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// do issues one HTTP request and returns the status code and body.
// Network-level failures are classified as transient; context expiry as
// timeout.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return 0, nil, core.NewError(core.KindPermanent, "index.request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, core.NewError(core.KindTimeout, "index.request", err)
		}
		return 0, nil, core.NewError(core.KindTransient, "index.request", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, core.NewError(core.KindTransient, "index.request", err)
	}
	return resp.StatusCode, data, nil
}

// classifyStatus maps an HTTP status to the error taxonomy. The response
// body is only summarized, never propagated raw to callers.
func classifyStatus(op string, status int, body []byte) error {
	summary := fmt.Sprintf("status %d", status)
	if len(body) > 0 {
		var parsed struct {
			Error struct {
				Type string `json:"type"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &parsed) == nil && parsed.Error.Type != "" {
			summary = fmt.Sprintf("status %d (%s)", status, parsed.Error.Type)
		}
	}
	err := errors.New(summary)
	switch {
	case status == http.StatusTooManyRequests:
		return core.NewError(core.KindCapacity, op, err)
	case status == http.StatusRequestTimeout || status >= 500:
		return core.NewError(core.KindTransient, op, err)
	default:
		return core.NewError(core.KindPermanent, op, err)
	}
}
