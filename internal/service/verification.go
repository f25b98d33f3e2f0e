package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/factgate/factgate/internal/adapters/reputation"
	"github.com/factgate/factgate/internal/adapters/urlscan"
	"github.com/factgate/factgate/internal/adapters/warehouse"
	"github.com/factgate/factgate/internal/background"
	"github.com/factgate/factgate/internal/core"
	"github.com/factgate/factgate/internal/poll"
)

const maxScreenshotBytes = 8 * 1024 * 1024

// VerificationServiceOptions groups dependencies for VerificationService.
type VerificationServiceOptions struct {
	Reputation poll.Adapter[reputation.ScanRequest, reputation.Verdict]    // Required
	URLScan    poll.Adapter[urlscan.ScanRequest, urlscan.Report]           // Required
	Warehouse  poll.Adapter[warehouse.QueryRequest, warehouse.QueryResult] // Required

	ScanPolicy      poll.Policy // Optional: defaults to poll.DefaultScanPolicy
	URLScanPolicy   poll.Policy // Optional: defaults to ScanPolicy
	WarehousePolicy poll.Policy // Optional: defaults to poll.DefaultWarehousePolicy

	Artifacts  core.ArtifactStore    // Optional: screenshot archival skipped when nil
	Background *background.Scheduler // Optional: required for screenshot archival
	HTTPClient *http.Client          // Optional: used for artifact fetches
	Logger     *slog.Logger          // Optional: structured logger
	Sleep      poll.Sleeper          // Optional: override poll sleeps in tests

	// ArtifactTTL bounds how long archived screenshots are kept. Defaults to 7 days.
	ArtifactTTL time.Duration
}

// VerificationService exposes the verification operations: reputation
// checks, malicious-URL scans, and warehouse queries. All three ride the
// same poll engine; only the adapter and interval policy differ.
type VerificationService struct {
	reputation *poll.Poller[reputation.ScanRequest, reputation.Verdict]
	urlscan    *poll.Poller[urlscan.ScanRequest, urlscan.Report]
	warehouse  *poll.Poller[warehouse.QueryRequest, warehouse.QueryResult]

	artifacts   core.ArtifactStore
	background  *background.Scheduler
	http        *http.Client
	logger      *slog.Logger
	artifactTTL time.Duration
}

// NewVerificationService constructs a VerificationService.
func NewVerificationService(opts VerificationServiceOptions) (*VerificationService, error) {
	if opts.Reputation == nil || opts.URLScan == nil || opts.Warehouse == nil {
		return nil, errors.New("all three job adapters are required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	scanPolicy := opts.ScanPolicy
	if scanPolicy == nil {
		scanPolicy = poll.DefaultScanPolicy()
	}
	urlScanPolicy := opts.URLScanPolicy
	if urlScanPolicy == nil {
		urlScanPolicy = scanPolicy
	}
	warehousePolicy := opts.WarehousePolicy
	if warehousePolicy == nil {
		warehousePolicy = poll.DefaultWarehousePolicy()
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	artifactTTL := opts.ArtifactTTL
	if artifactTTL <= 0 {
		artifactTTL = 7 * 24 * time.Hour
	}

	repPoller, err := poll.New(poll.Options[reputation.ScanRequest, reputation.Verdict]{
		Adapter: opts.Reputation, Policy: scanPolicy, Logger: logger, Sleep: opts.Sleep,
	})
	if err != nil {
		return nil, fmt.Errorf("create reputation poller: %w", err)
	}
	scanPoller, err := poll.New(poll.Options[urlscan.ScanRequest, urlscan.Report]{
		Adapter: opts.URLScan, Policy: urlScanPolicy, Logger: logger, Sleep: opts.Sleep,
	})
	if err != nil {
		return nil, fmt.Errorf("create urlscan poller: %w", err)
	}
	whPoller, err := poll.New(poll.Options[warehouse.QueryRequest, warehouse.QueryResult]{
		Adapter: opts.Warehouse, Policy: warehousePolicy, Logger: logger, Sleep: opts.Sleep,
	})
	if err != nil {
		return nil, fmt.Errorf("create warehouse poller: %w", err)
	}

	return &VerificationService{
		reputation:  repPoller,
		urlscan:     scanPoller,
		warehouse:   whPoller,
		artifacts:   opts.Artifacts,
		background:  opts.Background,
		http:        hc,
		logger:      logger.With("component", "verification_service"),
		artifactTTL: artifactTTL,
	}, nil
}

// CheckReputation runs a reputation scan to a terminal result. A timed-out
// result still carries the last-known reference so the caller can act on a
// pending job instead of losing track of it.
func (s *VerificationService) CheckReputation(ctx context.Context, target string) poll.Result[reputation.Verdict] {
	result := s.reputation.Run(ctx, reputation.ScanRequest{URL: target})
	s.logOutcome(ctx, "reputation check", target, result.Outcome)
	return result
}

// ScanURL runs a malicious-URL scan to a terminal result and, on success,
// schedules best-effort archival of the scan screenshot.
func (s *VerificationService) ScanURL(ctx context.Context, target string) poll.Result[urlscan.Report] {
	result := s.urlscan.Run(ctx, urlscan.ScanRequest{URL: target})
	s.logOutcome(ctx, "url scan", target, result.Outcome)

	if result.Outcome == poll.OutcomeSuccess && result.Payload.ScreenshotURL != "" {
		s.scheduleScreenshotArchive(ctx, target, result)
	}
	return result
}

// RunWarehouseQuery executes an analytical query to a terminal result.
func (s *VerificationService) RunWarehouseQuery(ctx context.Context, query string) poll.Result[warehouse.QueryResult] {
	result := s.warehouse.Run(ctx, warehouse.QueryRequest{Query: query})
	if result.Outcome != poll.OutcomeSuccess {
		s.logger.WarnContext(ctx, "warehouse query did not succeed",
			"outcome", result.Outcome, "reason", result.Reason)
	}
	return result
}

func (s *VerificationService) logOutcome(ctx context.Context, op, target string, outcome poll.Outcome) {
	s.logger.InfoContext(ctx, op+" finished",
		"domain", registeredDomain(target),
		"outcome", outcome)
}

// scheduleScreenshotArchive defers the screenshot fetch so the primary
// response is never delayed or failed by it.
func (s *VerificationService) scheduleScreenshotArchive(
	ctx context.Context,
	target string,
	result poll.Result[urlscan.Report],
) {
	if s.artifacts == nil || s.background == nil {
		return
	}

	screenshotURL := result.Payload.ScreenshotURL
	key := fmt.Sprintf("screenshot:%s:%s", registeredDomain(target), result.Job.JobID)

	s.background.Schedule(ctx, "archive_screenshot", func(taskCtx context.Context) error {
		data, err := s.fetchArtifact(taskCtx, screenshotURL)
		if err != nil {
			return fmt.Errorf("fetch screenshot: %w", err)
		}
		if err := s.artifacts.Put(taskCtx, key, data, s.artifactTTL); err != nil {
			return fmt.Errorf("store screenshot: %w", err)
		}
		return nil
	})
}

func (s *VerificationService) fetchArtifact(ctx context.Context, artifactURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Warn("close artifact body", "error", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxScreenshotBytes))
}

// registeredDomain reduces a raw URL to its effective TLD plus one for log
// fields and artifact keys. Falls back to the bare host when the public
// suffix list has no answer (e.g. IP literals, internal hosts).
func registeredDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	host := u.Hostname()
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
