package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factgate/factgate/internal/core"
	"github.com/factgate/factgate/internal/domain/model"
)

type capturedRequest struct {
	path    string
	auth    string
	payload map[string]any
}

func newTestSender(t *testing.T, status int, captured *capturedRequest) *HTTPSender {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.payload))
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	sender, err := NewHTTPSender(HTTPSenderOptions{BaseURL: srv.URL, AuthToken: "secret-token"})
	require.NoError(t, err)
	return sender
}

func TestNewHTTPSender_RequiresBaseURL(t *testing.T) {
	_, err := NewHTTPSender(HTTPSenderOptions{})
	require.Error(t, err)
}

func TestHTTPSender_SendNewlyAssessed(t *testing.T) {
	var captured capturedRequest
	sender := newTestSender(t, http.StatusOK, &captured)

	err := sender.SendNewlyAssessed(context.Background(), core.NewlyAssessedNotification{
		CheckID:          "check-1",
		Category:         model.CrowdCategoryScam,
		ReplyToMessageID: 9001,
	})

	require.NoError(t, err)
	assert.Equal(t, "/notifications/assessed", captured.path)
	assert.Equal(t, "Bearer secret-token", captured.auth)
	assert.Equal(t, map[string]any{
		"id":                   "check-1",
		"crowdsourcedCategory": "scam",
		"replyToMessageId":     float64(9001),
	}, captured.payload)
}

func TestHTTPSender_SendCommunityNoteDownvote(t *testing.T) {
	var captured capturedRequest
	sender := newTestSender(t, http.StatusAccepted, &captured)

	err := sender.SendCommunityNoteDownvote(context.Background(), core.DownvoteNotification{
		CheckID:          "check-2",
		ReplyToMessageID: 77,
	})

	require.NoError(t, err)
	assert.Equal(t, "/notifications/community-note-downvote", captured.path)
	assert.Equal(t, map[string]any{
		"id":               "check-2",
		"replyToMessageId": float64(77),
	}, captured.payload)
}

func TestHTTPSender_SendCategoryChange(t *testing.T) {
	var captured capturedRequest
	sender := newTestSender(t, http.StatusOK, &captured)

	err := sender.SendCategoryChange(context.Background(), core.CategoryChangeNotification{
		CheckID:          "check-3",
		PreviousCategory: model.CrowdCategoryAccurate,
		CurrentCategory:  model.CrowdCategoryMisleading,
		ReplyToMessageID: 42,
	})

	require.NoError(t, err)
	assert.Equal(t, "/notifications/category-change", captured.path)
	assert.Equal(t, map[string]any{
		"id":               "check-3",
		"previousCategory": "accurate",
		"currentCategory":  "misleading",
		"replyToMessageId": float64(42),
	}, captured.payload)
}

func TestHTTPSender_RejectedDelivery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"unknown check"}`))
	}))
	t.Cleanup(srv.Close)

	sender, err := NewHTTPSender(HTTPSenderOptions{BaseURL: srv.URL})
	require.NoError(t, err)

	err = sender.SendNewlyAssessed(context.Background(), core.NewlyAssessedNotification{
		CheckID: "check-1",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 400")
	assert.Contains(t, err.Error(), "unknown check")
}
