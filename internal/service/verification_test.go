package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/factgate/factgate/internal/adapters/reputation"
	"github.com/factgate/factgate/internal/adapters/urlscan"
	"github.com/factgate/factgate/internal/adapters/warehouse"
	"github.com/factgate/factgate/internal/background"
	"github.com/factgate/factgate/internal/domain/model"
	"github.com/factgate/factgate/internal/mocks"
	"github.com/factgate/factgate/internal/poll"
)

// fakeJobAdapter implements poll.Adapter with injectable function fields.
type fakeJobAdapter[Q, R any] struct {
	kind     model.JobKind
	submitFn func(ctx context.Context, req Q) (poll.Submission[R], error)
	pollFn   func(ctx context.Context, h poll.Handle) (poll.Status[R], error)
}

func (f *fakeJobAdapter[Q, R]) Kind() model.JobKind { return f.kind }

func (f *fakeJobAdapter[Q, R]) Submit(ctx context.Context, req Q) (poll.Submission[R], error) {
	return f.submitFn(ctx, req)
}

func (f *fakeJobAdapter[Q, R]) Poll(ctx context.Context, h poll.Handle) (poll.Status[R], error) {
	return f.pollFn(ctx, h)
}

type verificationFixture struct {
	reputation *fakeJobAdapter[reputation.ScanRequest, reputation.Verdict]
	urlscan    *fakeJobAdapter[urlscan.ScanRequest, urlscan.Report]
	warehouse  *fakeJobAdapter[warehouse.QueryRequest, warehouse.QueryResult]
}

func defaultVerificationFixture() *verificationFixture {
	return &verificationFixture{
		reputation: &fakeJobAdapter[reputation.ScanRequest, reputation.Verdict]{
			kind: model.JobKindReputationScan,
			submitFn: func(_ context.Context, _ reputation.ScanRequest) (poll.Submission[reputation.Verdict], error) {
				return poll.Submission[reputation.Verdict]{
					Handle: poll.Handle{ID: "rep-1"},
					Immediate: &poll.Status[reputation.Verdict]{
						Phase:   poll.PhaseSucceeded,
						Payload: reputation.Verdict{Classification: "benign", Score: 2},
					},
				}, nil
			},
		},
		urlscan: &fakeJobAdapter[urlscan.ScanRequest, urlscan.Report]{
			kind: model.JobKindMaliciousURLScan,
			submitFn: func(_ context.Context, _ urlscan.ScanRequest) (poll.Submission[urlscan.Report], error) {
				return poll.Submission[urlscan.Report]{Handle: poll.Handle{ID: "scan-1"}}, nil
			},
			pollFn: func(_ context.Context, _ poll.Handle) (poll.Status[urlscan.Report], error) {
				return poll.Status[urlscan.Report]{
					Phase:   poll.PhaseSucceeded,
					Payload: urlscan.Report{Malicious: false, Score: 5},
				}, nil
			},
		},
		warehouse: &fakeJobAdapter[warehouse.QueryRequest, warehouse.QueryResult]{
			kind: model.JobKindWarehouseQuery,
			submitFn: func(_ context.Context, _ warehouse.QueryRequest) (poll.Submission[warehouse.QueryResult], error) {
				return poll.Submission[warehouse.QueryResult]{
					Handle: poll.Handle{ID: "job-1"},
					Immediate: &poll.Status[warehouse.QueryResult]{
						Phase:   poll.PhaseSucceeded,
						Payload: warehouse.QueryResult{Rows: []any{"row-1"}},
					},
				}, nil
			},
		},
	}
}

func newVerificationService(t *testing.T, f *verificationFixture, opts VerificationServiceOptions) *VerificationService {
	t.Helper()
	opts.Reputation = f.reputation
	opts.URLScan = f.urlscan
	opts.Warehouse = f.warehouse
	if opts.Sleep == nil {
		opts.Sleep = func(context.Context, time.Duration) error { return nil }
	}

	svc, err := NewVerificationService(opts)
	require.NoError(t, err)
	return svc
}

func TestNewVerificationService_RequiresAdapters(t *testing.T) {
	_, err := NewVerificationService(VerificationServiceOptions{})
	require.Error(t, err)
}

func TestVerificationService_CheckReputation(t *testing.T) {
	svc := newVerificationService(t, defaultVerificationFixture(), VerificationServiceOptions{})

	result := svc.CheckReputation(context.Background(), "https://example.com")

	assert.Equal(t, poll.OutcomeSuccess, result.Outcome)
	assert.Equal(t, reputation.Verdict{Classification: "benign", Score: 2}, result.Payload)
	require.NotNil(t, result.Job)
	assert.Equal(t, model.JobKindReputationScan, result.Job.Kind)
}

func TestVerificationService_RunWarehouseQuery(t *testing.T) {
	svc := newVerificationService(t, defaultVerificationFixture(), VerificationServiceOptions{})

	result := svc.RunWarehouseQuery(context.Background(), "SELECT 1")

	assert.Equal(t, poll.OutcomeSuccess, result.Outcome)
	assert.Equal(t, []any{"row-1"}, result.Payload.Rows)
}

func TestVerificationService_ScanURL_ArchivesScreenshot(t *testing.T) {
	screenshot := []byte{0x89, 'P', 'N', 'G'}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(screenshot)
	}))
	t.Cleanup(srv.Close)

	f := defaultVerificationFixture()
	f.urlscan.pollFn = func(_ context.Context, _ poll.Handle) (poll.Status[urlscan.Report], error) {
		return poll.Status[urlscan.Report]{
			Phase: poll.PhaseSucceeded,
			Payload: urlscan.Report{
				Malicious:     true,
				Score:         91,
				ScreenshotURL: srv.URL + "/screenshots/scan-1.png",
			},
		}, nil
	}

	ctrl := gomock.NewController(t)
	artifacts := mocks.NewMockArtifactStore(ctrl)
	stored := make(chan []byte, 1)
	artifacts.EXPECT().
		Put(gomock.Any(), "screenshot:example.com:scan-1", gomock.Any(), 7*24*time.Hour).
		DoAndReturn(func(_ context.Context, _ string, data []byte, _ time.Duration) error {
			stored <- data
			return nil
		})

	scheduler := background.NewScheduler(background.Options{})
	svc := newVerificationService(t, f, VerificationServiceOptions{
		Artifacts:  artifacts,
		Background: scheduler,
	})

	result := svc.ScanURL(context.Background(), "https://www.example.com/article")
	assert.Equal(t, poll.OutcomeSuccess, result.Outcome)
	assert.True(t, result.Payload.Malicious)

	select {
	case data := <-stored:
		assert.Equal(t, screenshot, data)
	case <-time.After(5 * time.Second):
		t.Fatal("screenshot was not archived")
	}
}

func TestVerificationService_ScanURL_NoSchedulerSkipsArchival(t *testing.T) {
	f := defaultVerificationFixture()
	f.urlscan.pollFn = func(_ context.Context, _ poll.Handle) (poll.Status[urlscan.Report], error) {
		return poll.Status[urlscan.Report]{
			Phase:   poll.PhaseSucceeded,
			Payload: urlscan.Report{ScreenshotURL: "https://example.com/shot.png"},
		}, nil
	}

	svc := newVerificationService(t, f, VerificationServiceOptions{})

	// No artifact store or scheduler configured: the scan still succeeds.
	result := svc.ScanURL(context.Background(), "https://example.com")
	assert.Equal(t, poll.OutcomeSuccess, result.Outcome)
}

func TestRegisteredDomain(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://www.example.com/path", "example.com"},
		{"https://sub.domain.example.co.uk/x", "example.co.uk"},
		{"https://localhost:8080/x", "localhost"},
		{"not a url", "not a url"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, registeredDomain(tt.raw), "input %q", tt.raw)
	}
}
