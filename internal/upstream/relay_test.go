package upstream

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sophialaurans/stockly-go/internal/domain"
	apperrors "github.com/sophialaurans/stockly-go/pkg/errors"
	"github.com/sophialaurans/stockly-go/pkg/httpclient"
)

func newTestRelay(t *testing.T, baseURL string) *Relay {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("fulfillment-test"), logger)
	return NewRelay(cb, baseURL, logger)
}

func samplePayload() *domain.SubmissionPayload {
	return &domain.SubmissionPayload{
		ClientID: "cli-1",
		Items: []domain.SubmissionItem{
			{ProductID: "prod-1", Quantity: 2, UnitPrice: 1500},
		},
		TotalPrice: 3000,
		Status:     domain.OrderStatusPending,
	}
}

func TestRelay_RelayOrder_Success(t *testing.T) {
	var received domain.SubmissionPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	relay := newTestRelay(t, srv.URL)

	err := relay.RelayOrder(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.Equal(t, "cli-1", received.ClientID)
	assert.Equal(t, int64(3000), received.TotalPrice)
	assert.Equal(t, domain.OrderStatusPending, received.Status)
}

func TestRelay_RelayOrder_UpstreamRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "INVALID_ORDER", "message": "client on hold"},
		})
	}))
	defer srv.Close()

	relay := newTestRelay(t, srv.URL)

	err := relay.RelayOrder(context.Background(), samplePayload())
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_ORDER", appErr.Code)
	assert.Contains(t, appErr.Message, "client on hold")
}

func TestRelay_RelayOrder_UpstreamUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	relay := newTestRelay(t, srv.URL)

	err := relay.RelayOrder(context.Background(), samplePayload())
	assert.Error(t, err)
}
