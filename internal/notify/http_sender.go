// Package notify delivers user-facing notifications through the external
// notification service's HTTP API, threading each message to the original
// notification via the reply-to handle.
package notify

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

	"github.com/factgate/factgate/internal/core"
)

const maxErrorBodyBytes = 4 * 1024

// HTTPSenderOptions configures the HTTP notification sender.
type HTTPSenderOptions struct {
	BaseURL    string       // Required: notification service base URL
	AuthToken  string       // Optional: bearer token
	HTTPClient *http.Client // Optional: defaults to a 15s-timeout client
	Logger     *slog.Logger // Optional: structured logger
}

// HTTPSender implements core.NotificationSender over HTTP.
type HTTPSender struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// NewHTTPSender constructs an HTTP notification sender.
func NewHTTPSender(opts HTTPSenderOptions) (*HTTPSender, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("notify: base URL is required")
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPSender{
		baseURL: opts.BaseURL,
		token:   opts.AuthToken,
		http:    hc,
		logger:  logger.With("component", "notification_sender"),
	}, nil
}

// SendNewlyAssessed implements core.NotificationSender.
func (s *HTTPSender) SendNewlyAssessed(ctx context.Context, n core.NewlyAssessedNotification) error {
	return s.post(ctx, "/notifications/assessed", map[string]any{
		"id":                   n.CheckID,
		"crowdsourcedCategory": n.Category,
		"replyToMessageId":     n.ReplyToMessageID,
	})
}

// SendCommunityNoteDownvote implements core.NotificationSender.
func (s *HTTPSender) SendCommunityNoteDownvote(ctx context.Context, n core.DownvoteNotification) error {
	return s.post(ctx, "/notifications/community-note-downvote", map[string]any{
		"id":               n.CheckID,
		"replyToMessageId": n.ReplyToMessageID,
	})
}

// SendCategoryChange implements core.NotificationSender.
func (s *HTTPSender) SendCategoryChange(ctx context.Context, n core.CategoryChangeNotification) error {
	return s.post(ctx, "/notifications/category-change", map[string]any{
		"id":               n.CheckID,
		"previousCategory": n.PreviousCategory,
		"currentCategory":  n.CurrentCategory,
		"replyToMessageId": n.ReplyToMessageID,
	})
}

func (s *HTTPSender) post(ctx context.Context, path string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("notify: POST %s: %w", path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Warn("close response body", "error", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("notify: POST %s: unexpected status %d: %s",
			path, resp.StatusCode, string(detail))
	}

	s.logger.DebugContext(ctx, "notification delivered", "path", path)
	return nil
}

var _ core.NotificationSender = (*HTTPSender)(nil)
