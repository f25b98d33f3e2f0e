// Package warehouse adapts the analytical warehouse query API to the
// generic poll contract. Submit starts a query job that may complete inline
// ({jobComplete: true, rows}) or hand back a job reference for a
// getQueryResults-style poll.
package warehouse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/factgate/factgate/internal/domain/model"
	"github.com/factgate/factgate/internal/poll"
)

const maxResponseBodyBytes = 4 * 1024 * 1024

// QueryRequest describes one warehouse query job.
type QueryRequest struct {
	Query     string `json:"query"`
	TimeoutMS int    `json:"timeoutMs,omitempty"`
}

// QueryResult carries the projected result rows of a completed query.
type QueryResult struct {
	Rows []any
}

// Options configures the warehouse client.
type Options struct {
	BaseURL    string       // Required: API base URL
	APIKey     string       // Required: upstream API key
	HTTPClient *http.Client // Optional: defaults to a 60s-timeout client
	Logger     *slog.Logger // Optional: structured logger
	// RowExpression is a JMESPath expression applied to the raw response to
	// extract rows, flattening nested wire shapes (e.g. "rows[].f[].v").
	// Defaults to "rows".
	RowExpression string
}

// Client implements poll.Adapter for warehouse query jobs.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
	rowExpr string
}

// NewClient constructs a warehouse query client.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("warehouse: base URL is required")
	}
	if opts.APIKey == "" {
		return nil, errors.New("warehouse: API key is required")
	}

	expr := opts.RowExpression
	if expr == "" {
		expr = "rows"
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("warehouse: compile row expression %q: %w", expr, err)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		http:    hc,
		logger:  logger.With("component", "warehouse_client"),
		rowExpr: expr,
	}, nil
}

// Kind implements poll.Adapter.
func (c *Client) Kind() model.JobKind { return model.JobKindWarehouseQuery }

type queryResponse struct {
	JobComplete  bool `json:"jobComplete"`
	JobReference *struct {
		JobID string `json:"jobId"`
	} `json:"jobReference"`
	Errors []struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Submit starts the query job. Short queries complete inline and carry an
// immediate status so the poller returns without a single poll round trip.
func (c *Client) Submit(ctx context.Context, req QueryRequest) (poll.Submission[QueryResult], error) {
	if req.Query == "" {
		return poll.Submission[QueryResult]{}, errors.New("warehouse: query is required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return poll.Submission[QueryResult]{}, fmt.Errorf("warehouse: marshal request: %w", err)
	}

	raw, err := c.roundTrip(ctx, http.MethodPost, c.baseURL+"/queries", bytes.NewReader(body))
	if err != nil {
		return poll.Submission[QueryResult]{}, err
	}

	decoded, err := decodeQueryResponse(raw)
	if err != nil {
		return poll.Submission[QueryResult]{}, err
	}

	var sub poll.Submission[QueryResult]
	if decoded.JobReference != nil {
		sub.Handle = poll.Handle{ID: decoded.JobReference.JobID}
	}

	status, err := c.interpret(raw, decoded)
	if err != nil {
		return poll.Submission[QueryResult]{}, err
	}
	if status.Phase.Terminal() {
		sub.Immediate = &status
		return sub, nil
	}
	if sub.Handle.ID == "" {
		return poll.Submission[QueryResult]{}, fmt.Errorf(
			"warehouse: incomplete job without jobReference: %w", poll.ErrMalformedResponse)
	}
	return sub, nil
}

// Poll fetches current query results for a running job.
func (c *Client) Poll(ctx context.Context, h poll.Handle) (poll.Status[QueryResult], error) {
	raw, err := c.roundTrip(ctx, http.MethodGet, c.baseURL+"/queries/"+h.ID, nil)
	if err != nil {
		return poll.Status[QueryResult]{}, err
	}

	decoded, err := decodeQueryResponse(raw)
	if err != nil {
		return poll.Status[QueryResult]{}, err
	}
	return c.interpret(raw, decoded)
}

func (c *Client) roundTrip(ctx context.Context, method, url string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("warehouse: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("warehouse: %s %s: %w", method, url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("close response body", "error", cerr)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("warehouse: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("warehouse: unexpected status %d", resp.StatusCode)
	}
	return raw, nil
}

func decodeQueryResponse(raw []byte) (queryResponse, error) {
	var decoded queryResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return queryResponse{}, fmt.Errorf("warehouse: decode response: %w", poll.ErrMalformedResponse)
	}
	return decoded, nil
}

// interpret maps a query response to a poll status, projecting rows through
// the configured JMESPath expression when the job is complete.
func (c *Client) interpret(raw []byte, decoded queryResponse) (poll.Status[QueryResult], error) {
	if len(decoded.Errors) > 0 {
		first := decoded.Errors[0]
		return poll.Status[QueryResult]{
			Phase:  poll.PhaseFailed,
			Reason: fmt.Sprintf("%s: %s", first.Reason, first.Message),
		}, nil
	}
	if !decoded.JobComplete {
		return poll.Status[QueryResult]{Phase: poll.PhaseProcessing}, nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return poll.Status[QueryResult]{}, fmt.Errorf(
			"warehouse: decode rows: %w", poll.ErrMalformedResponse)
	}

	projected, err := jmespath.Search(c.rowExpr, doc)
	if err != nil {
		return poll.Status[QueryResult]{}, fmt.Errorf("warehouse: project rows: %w", err)
	}

	rows, err := asRows(projected)
	if err != nil {
		return poll.Status[QueryResult]{}, err
	}
	return poll.Status[QueryResult]{
		Phase:   poll.PhaseSucceeded,
		Payload: QueryResult{Rows: rows},
	}, nil
}

func asRows(projected any) ([]any, error) {
	switch v := projected.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	default:
		return nil, fmt.Errorf("warehouse: row projection yielded %T, want list: %w",
			projected, poll.ErrMalformedResponse)
	}
}

var _ poll.Adapter[QueryRequest, QueryResult] = (*Client)(nil)
