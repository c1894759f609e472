package firestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/metrics"
)

const (
	// DefaultBaseURL is the public Firestore REST endpoint.
	DefaultBaseURL  = "https://firestore.googleapis.com"
	defaultDatabase = "(default)"
	defaultTimeout  = 10 * time.Second
	maxBodyBytes    = 32 << 20
	maxErrorBody    = 512
)

// Config holds connection parameters for the REST client.
type Config struct {
	ProjectID string
	Database  string
	APIKey    string
	BaseURL   string

	// Timeout bounds each HTTP attempt.
	Timeout time.Duration
	// MaxRetries is the number of extra attempts for transient failures.
	MaxRetries int
	// RetryInitialInterval is the first backoff delay (default 200ms).
	RetryInitialInterval time.Duration

	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the Firestore REST API.
type Client struct {
	http          *http.Client
	documentsURL  string
	apiKey        string
	timeout       time.Duration
	maxRetries    int
	retryInterval time.Duration
	logger        *zap.Logger
}

// NewClient creates a REST client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("firestore: project id is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	database := cfg.Database
	if database == "" {
		database = defaultDatabase
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	interval := cfg.RetryInitialInterval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		http: httpClient,
		documentsURL: fmt.Sprintf("%s/v1/projects/%s/databases/%s/documents",
			base, url.PathEscape(cfg.ProjectID), url.PathEscape(database)),
		apiKey:        cfg.APIKey,
		timeout:       timeout,
		maxRetries:    maxRetries,
		retryInterval: interval,
		logger:        logger,
	}, nil
}

// RunQuery executes a structured query and returns the matched documents in
// endpoint order.
func (c *Client) RunQuery(ctx context.Context, q *StructuredQuery) ([]Document, error) {
	body, err := json.Marshal(runQueryRequest{StructuredQuery: q})
	if err != nil {
		return nil, &Error{Op: OpRunQuery, Err: err}
	}

	data, err := c.do(ctx, OpRunQuery, http.MethodPost, c.endpoint(":runQuery"), body)
	if err != nil {
		return nil, err
	}

	var results []runQueryResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, &Error{Op: OpRunQuery, Err: fmt.Errorf("decode response: %w", err)}
	}

	docs := make([]Document, 0, len(results))
	for _, r := range results {
		if r.Document != nil {
			docs = append(docs, *r.Document)
		}
	}
	return docs, nil
}

// GetDocument fetches a single document by id.
func (c *Client) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	data, err := c.do(ctx, OpGet, http.MethodGet, c.endpoint(docPath(collection, id)), nil)
	if err != nil {
		var qf *QueryFailedError
		if errors.As(err, &qf) && qf.Status == http.StatusNotFound {
			return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return Document{}, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, &Error{Op: OpGet, Err: fmt.Errorf("decode response: %w", err)}
	}
	return doc, nil
}

// PatchDocument creates or overwrites the given fields of a document.
func (c *Client) PatchDocument(
	ctx context.Context, collection, id string, fields map[string]Value,
) (Document, error) {
	body, err := json.Marshal(Document{Fields: fields})
	if err != nil {
		return Document{}, &Error{Op: OpPatch, Err: err}
	}

	data, err := c.do(ctx, OpPatch, http.MethodPatch, c.endpoint(docPath(collection, id)), body)
	if err != nil {
		return Document{}, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, &Error{Op: OpPatch, Err: fmt.Errorf("decode response: %w", err)}
	}
	return doc, nil
}

// Ping runs an empty query to check that the endpoint answers.
func (c *Client) Ping(ctx context.Context) error {
	one := 1
	_, err := c.RunQuery(ctx, &StructuredQuery{
		From:  []CollectionSelector{{CollectionID: "__ping__"}},
		Limit: &one,
	})
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func docPath(collection, id string) string {
	return "/" + url.PathEscape(collection) + "/" + url.PathEscape(id)
}

func (c *Client) endpoint(suffix string) string {
	u := c.documentsURL + suffix
	if c.apiKey != "" {
		u += "?" + url.Values{"key": {c.apiKey}}.Encode()
	}
	return u
}

// do performs the request, retrying transient failures with exponential backoff.
func (c *Client) do(ctx context.Context, op, method, u string, body []byte) ([]byte, error) {
	var out []byte
	attempt := 0

	operation := func() error {
		attempt++
		if attempt > 1 {
			metrics.FirestoreRetriesTotal.WithLabelValues(op).Inc()
		}

		data, err := c.once(ctx, op, method, u, body)
		if err == nil {
			out = data
			return nil
		}

		var qf *QueryFailedError
		if errors.As(err, &qf) && qf.Transient() && ctx.Err() == nil {
			c.logger.Debug("Transient Firestore failure",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Int("status", qf.Status),
				zap.Error(err),
			)
			return err
		}
		return backoff.Permanent(err)
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.retryInterval
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(c.maxRetries)), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		var qf *QueryFailedError
		if !errors.As(err, &qf) && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			err = &QueryFailedError{Err: err}
		}
		return nil, err
	}
	return out, nil
}

func (c *Client) once(ctx context.Context, op, method, u string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.FirestoreRequestsTotal.WithLabelValues(op, "error").Inc()
		return nil, &QueryFailedError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	metrics.FirestoreRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.FirestoreRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
	if err != nil {
		return nil, &QueryFailedError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(data)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &QueryFailedError{Status: resp.StatusCode, Body: msg}
	}
	return data, nil
}
