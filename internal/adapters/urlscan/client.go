// Package urlscan adapts the malicious-URL scanning API to the generic poll
// contract. The upstream never returns results inline: submit yields a scan
// UUID plus a public result page, and the result endpoint responds 404 until
// the scan finishes. The result page URL doubles as the manual-review
// fallback when polling times out.
package urlscan

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

const maxResponseBodyBytes = 256 * 1024

// ScanRequest asks for a malicious-URL scan of one URL.
type ScanRequest struct {
	URL        string `json:"url"`
	Visibility string `json:"visibility,omitempty"`
}

// Report is the normalized scan result.
type Report struct {
	Malicious     bool
	Score         int
	ScreenshotURL string
	ReportURL     string
}

// Options configures the urlscan client.
type Options struct {
	BaseURL    string       // Required: API base URL
	APIKey     string       // Required: upstream API key
	HTTPClient *http.Client // Optional: defaults to a 30s-timeout client
	Logger     *slog.Logger // Optional: structured logger
}

// Client implements poll.Adapter for malicious-URL scans.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient constructs a malicious-URL scan client.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("urlscan: base URL is required")
	}
	if opts.APIKey == "" {
		return nil, errors.New("urlscan: API key is required")
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
		logger:  logger.With("component", "urlscan_client"),
	}, nil
}

// Kind implements poll.Adapter.
func (c *Client) Kind() model.JobKind { return model.JobKindMaliciousURLScan }

type submitResponse struct {
	UUID    string `json:"uuid"`
	Result  string `json:"result"`
	Message string `json:"message"`
}

type resultResponse struct {
	Task *struct {
		ScreenshotURL string `json:"screenshotURL"`
		ReportURL     string `json:"reportURL"`
	} `json:"task"`
	Verdicts *struct {
		Overall struct {
			Score     int  `json:"score"`
			Malicious bool `json:"malicious"`
		} `json:"overall"`
	} `json:"verdicts"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Submit queues a scan. The handle carries the public result page URL so a
// timed-out session still points somewhere a human can look.
func (c *Client) Submit(ctx context.Context, req ScanRequest) (poll.Submission[Report], error) {
	if req.URL == "" {
		return poll.Submission[Report]{}, errors.New("urlscan: url is required")
	}
	if req.Visibility == "" {
		req.Visibility = "public"
	}

	body, err := json.Marshal(req)
	if err != nil {
		return poll.Submission[Report]{}, fmt.Errorf("urlscan: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/api/v1/scan/", bytes.NewReader(body))
	if err != nil {
		return poll.Submission[Report]{}, fmt.Errorf("urlscan: build request: %w", err)
	}
	httpReq.Header.Set("API-Key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	raw, status, err := c.send(httpReq)
	if err != nil {
		return poll.Submission[Report]{}, err
	}
	if status != http.StatusOK {
		return poll.Submission[Report]{}, fmt.Errorf(
			"urlscan: submit rejected with status %d: %s", status, truncate(raw))
	}

	var decoded submitResponse
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded.UUID == "" {
		return poll.Submission[Report]{}, fmt.Errorf(
			"urlscan: decode submit response: %w", poll.ErrMalformedResponse)
	}

	return poll.Submission[Report]{
		Handle: poll.Handle{ID: decoded.UUID, ResultURL: decoded.Result},
	}, nil
}

// Poll fetches the scan result. A 404 means the scan is still running.
func (c *Client) Poll(ctx context.Context, h poll.Handle) (poll.Status[Report], error) {
	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"/api/v1/result/"+h.ID+"/", nil)
	if err != nil {
		return poll.Status[Report]{}, fmt.Errorf("urlscan: build request: %w", err)
	}
	httpReq.Header.Set("API-Key", c.apiKey)

	raw, status, err := c.send(httpReq)
	if err != nil {
		return poll.Status[Report]{}, err
	}

	switch status {
	case http.StatusNotFound:
		return poll.Status[Report]{Phase: poll.PhaseProcessing}, nil
	case http.StatusOK:
		return interpretResult(raw, h)
	default:
		return poll.Status[Report]{}, fmt.Errorf("urlscan: unexpected status %d", status)
	}
}

func (c *Client) send(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("urlscan: %s %s: %w", req.Method, req.URL, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("close response body", "error", cerr)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("urlscan: read response: %w", err)
	}
	return raw, resp.StatusCode, nil
}

func interpretResult(raw []byte, h poll.Handle) (poll.Status[Report], error) {
	var decoded resultResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return poll.Status[Report]{}, fmt.Errorf(
			"urlscan: decode result response: %w", poll.ErrMalformedResponse)
	}

	if decoded.Status == "failed" {
		return poll.Status[Report]{Phase: poll.PhaseFailed, Reason: decoded.Message}, nil
	}
	if decoded.Verdicts == nil {
		return poll.Status[Report]{}, fmt.Errorf(
			"urlscan: result missing verdicts: %w", poll.ErrMalformedResponse)
	}

	report := Report{
		Malicious: decoded.Verdicts.Overall.Malicious,
		Score:     decoded.Verdicts.Overall.Score,
		ReportURL: h.ResultURL,
	}
	if decoded.Task != nil {
		report.ScreenshotURL = decoded.Task.ScreenshotURL
		if decoded.Task.ReportURL != "" {
			report.ReportURL = decoded.Task.ReportURL
		}
	}
	return poll.Status[Report]{Phase: poll.PhaseSucceeded, Payload: report}, nil
}

func truncate(raw []byte) string {
	const limit = 200
	if len(raw) > limit {
		raw = raw[:limit]
	}
	return string(raw)
}

var _ poll.Adapter[ScanRequest, Report] = (*Client)(nil)
