// Package mail holds the outbound email clients: the transactional provider
// and the relay endpoint that fronts it.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

const (
	DefaultResendURL = "https://api.resend.com/emails"
	DefaultFrom      = "Help Desk Delta <nao-responda@deltadomusadm.com.br>"
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 1 << 20
)

// ResendClient posts messages to a Resend-compatible /emails endpoint.
type ResendClient struct {
	url        string
	apiKey     string
	from       string
	httpClient *http.Client
}

// NewResendClient returns a client. An empty url or from falls back to the
// defaults; an empty apiKey is sent as is and rejected by the provider.
func NewResendClient(url, apiKey, from string) *ResendClient {
	if url == "" {
		url = DefaultResendURL
	}
	if from == "" {
		from = DefaultFrom
	}
	return &ResendClient{
		url:        url,
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send returns the provider's JSON response. A non-2xx answer yields a
// *domain.ProviderError carrying the same body.
func (c *ResendClient) Send(ctx context.Context, msg domain.Email) ([]byte, error) {
	body, err := json.Marshal(resendPayload{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	return doJSON(c.httpClient, req)
}

// doJSON executes req and returns the body once it is known to be JSON.
func doJSON(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("provider returned non-JSON response (status %d)", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, &domain.ProviderError{StatusCode: resp.StatusCode, Body: raw}
	}
	return raw, nil
}
