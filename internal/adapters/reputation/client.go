// Package reputation adapts the URL reputation scanning API to the generic
// poll contract. The upstream is submit-then-poll but frequently returns the
// full verdict on the submit call itself.
package reputation

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

	"github.com/factgate/factgate/internal/domain/model"
	"github.com/factgate/factgate/internal/poll"
)

const maxResponseBodyBytes = 64 * 1024

// ScanRequest asks for a reputation verdict on one URL.
type ScanRequest struct {
	URL string `json:"url"`
}

// Verdict is the normalized reputation result.
type Verdict struct {
	Classification string `json:"classification"`
	Score          int    `json:"score"`
}

// Options configures the reputation client.
type Options struct {
	BaseURL    string       // Required: API base URL
	APIKey     string       // Required: upstream API key
	HTTPClient *http.Client // Optional: defaults to a 30s-timeout client
	Logger     *slog.Logger // Optional: structured logger
}

// Client implements poll.Adapter for reputation scans.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient constructs a reputation scan client.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("reputation: base URL is required")
	}
	if opts.APIKey == "" {
		return nil, errors.New("reputation: API key is required")
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		http:    hc,
		logger:  logger.With("component", "reputation_client"),
	}, nil
}

// Kind implements poll.Adapter.
func (c *Client) Kind() model.JobKind { return model.JobKindReputationScan }

// scanResponse is the validated wire shape shared by submit and poll.
type scanResponse struct {
	RequestID     string `json:"request_id"`
	Status        string `json:"status"`
	OverallResult *struct {
		Classification string `json:"classification"`
		Score          int    `json:"score"`
	} `json:"overall_result"`
	Message string `json:"message"`
}

// Submit sends the URL for scanning. If the upstream already has a verdict
// it is carried back as an immediate status so no polling is needed.
func (c *Client) Submit(ctx context.Context, req ScanRequest) (poll.Submission[Verdict], error) {
	if req.URL == "" {
		return poll.Submission[Verdict]{}, errors.New("reputation: url is required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return poll.Submission[Verdict]{}, fmt.Errorf("reputation: marshal request: %w", err)
	}

	decoded, err := c.roundTrip(ctx, http.MethodPost, c.baseURL+"/v1/scan", bytes.NewReader(body))
	if err != nil {
		return poll.Submission[Verdict]{}, err
	}

	if decoded.RequestID == "" {
		return poll.Submission[Verdict]{}, fmt.Errorf(
			"reputation: submit response missing request_id: %w", poll.ErrMalformedResponse)
	}

	sub := poll.Submission[Verdict]{Handle: poll.Handle{ID: decoded.RequestID}}
	status, err := interpret(decoded)
	if err != nil {
		// Submission itself succeeded; a malformed inline result just means
		// we fall back to polling.
		c.logger.DebugContext(ctx, "ignoring malformed inline result", "error", err)
		return sub, nil
	}
	if status.Phase.Terminal() {
		sub.Immediate = &status
	}
	return sub, nil
}

// Poll fetches the current result for a submitted scan. One round trip, no
// retries; the poller owns timing.
func (c *Client) Poll(ctx context.Context, h poll.Handle) (poll.Status[Verdict], error) {
	decoded, err := c.roundTrip(ctx, http.MethodGet, c.baseURL+"/v1/scan/"+h.ID, nil)
	if err != nil {
		return poll.Status[Verdict]{}, err
	}
	return interpret(decoded)
}

func (c *Client) roundTrip(ctx context.Context, method, url string, body io.Reader) (scanResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return scanResponse{}, fmt.Errorf("reputation: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return scanResponse{}, fmt.Errorf("reputation: %s %s: %w", method, url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("close response body", "error", cerr)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return scanResponse{}, fmt.Errorf("reputation: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return scanResponse{}, fmt.Errorf("reputation: unexpected status %d", resp.StatusCode)
	}

	var decoded scanResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return scanResponse{}, fmt.Errorf("reputation: decode response: %w", poll.ErrMalformedResponse)
	}
	return decoded, nil
}

// interpret normalizes a validated scan response into a poll status.
func interpret(decoded scanResponse) (poll.Status[Verdict], error) {
	switch decoded.Status {
	case "queued":
		return poll.Status[Verdict]{Phase: poll.PhaseQueued}, nil
	case "pending", "processing":
		return poll.Status[Verdict]{Phase: poll.PhaseProcessing}, nil
	case "failed":
		return poll.Status[Verdict]{Phase: poll.PhaseFailed, Reason: decoded.Message}, nil
	case "complete":
		if decoded.OverallResult == nil {
			return poll.Status[Verdict]{}, fmt.Errorf(
				"reputation: complete response missing overall_result: %w", poll.ErrMalformedResponse)
		}
		return poll.Status[Verdict]{
			Phase: poll.PhaseSucceeded,
			Payload: Verdict{
				Classification: decoded.OverallResult.Classification,
				Score:          decoded.OverallResult.Score,
			},
		}, nil
	default:
		return poll.Status[Verdict]{}, fmt.Errorf(
			"reputation: unknown status %q: %w", decoded.Status, poll.ErrMalformedResponse)
	}
}

var _ poll.Adapter[ScanRequest, Verdict] = (*Client)(nil)
