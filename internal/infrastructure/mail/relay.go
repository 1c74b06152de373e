package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

// RelayClient sends through a POST /api/send-email relay instead of talking
// to the provider directly.
type RelayClient struct {
	url        string
	httpClient *http.Client
}

func NewRelayClient(url string) *RelayClient {
	return &RelayClient{url: url, httpClient: &http.Client{Timeout: defaultTimeout}}
}

// Send posts {to, subject, html}. The relay answers 200 with the provider's
// JSON even when the provider rejected the message, so an "error" or
// "statusCode" field in that body is surfaced as a failure.
func (c *RelayClient) Send(ctx context.Context, msg domain.Email) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal email: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := doJSON(c.httpClient, req)
	if err != nil {
		return raw, err
	}

	var probe struct {
		Error      any `json:"error"`
		StatusCode int `json:"statusCode"`
	}
	if json.Unmarshal(raw, &probe) == nil && (probe.Error != nil || probe.StatusCode >= 400) {
		return raw, &domain.ProviderError{StatusCode: probe.StatusCode, Body: raw}
	}
	return raw, nil
}
