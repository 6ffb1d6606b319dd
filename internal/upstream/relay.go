// Package upstream relays submitted orders to an external fulfillment system.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/sophialaurans/stockly-go/internal/domain"
	"github.com/sophialaurans/stockly-go/pkg/httpclient"
)

// Relay forwards submission payloads to the upstream fulfillment endpoint.
// All calls go through a circuit breaker so a failing upstream cannot stall
// order submission.
type Relay struct {
	client  *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewRelay creates a relay targeting baseURL. The submission endpoint is
// POST {baseURL}/orders.
func NewRelay(client *httpclient.CircuitBreakerClient, baseURL string, logger *slog.Logger) *Relay {
	return &Relay{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

// RelayOrder forwards a submission payload upstream. A non-2xx response is
// mapped to an error via the shared downstream error parser.
func (r *Relay) RelayOrder(ctx context.Context, payload *domain.SubmissionPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal submission payload: %w", err)
	}

	url := r.baseURL + "/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("relay order upstream: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, "fulfillment")
	}

	r.logger.InfoContext(ctx, "order relayed upstream",
		slog.String("client_id", payload.ClientID),
		slog.Int("status", resp.StatusCode),
	)

	return nil
}
