package n8nclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mattjoyce/unihook/internal/log"
)

// Client talks to the host's workflow management API and forwards inbound
// event payloads to the host's per-trigger webhook URLs.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
}

// New builds a Client. forwardTimeout is the underlying http.Client's
// timeout, so it bounds every request the client makes: outbound forwards
// and the management-API calls of a sync pass alike.
func New(apiURL, apiKey string, forwardTimeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: forwardTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
	}
}

// ListActiveWorkflows pages through GET /api/v1/workflows and returns every
// active workflow. The host is expected to expose only active workflows
// via this call, but inactive ones are filtered out defensively.
func (c *Client) ListActiveWorkflows(ctx context.Context) ([]Workflow, error) {
	var all []Workflow
	cursor := ""

	for {
		page, next, err := c.fetchWorkflowsPage(ctx, cursor)
		if err != nil {
			return nil, err
		}
		for _, wf := range page {
			if wf.Active {
				all = append(all, wf)
			}
		}
		if next == "" {
			break
		}
		cursor = next
	}
	return all, nil
}

func (c *Client) fetchWorkflowsPage(ctx context.Context, cursor string) ([]Workflow, string, error) {
	endpoint := c.apiURL + "/api/v1/workflows"
	if cursor != "" {
		endpoint += "?cursor=" + url.QueryEscape(cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("n8nclient: build workflows request: %w", err)
	}
	req.Header.Set("X-N8N-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("n8nclient: list workflows: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("n8nclient: read workflows response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("n8nclient: workflows api returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed WorkflowsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, "", fmt.Errorf("n8nclient: parse workflows response: %w", err)
	}
	return parsed.Data, parsed.NextCursor, nil
}

// ForwardResult carries the outcome of one outbound forward.
type ForwardResult struct {
	StatusCode int
	Err        error
}

// Forward POSTs rawBody unchanged to webhookURL with the given headers,
// returning the response status code. Non-2xx responses are reported as a
// status code, not an error — only connection-level failures are errors,
// matching the fire-and-forward policy: callers log but never retry.
func (c *Client) Forward(ctx context.Context, webhookURL string, rawBody []byte, headers http.Header) ForwardResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(rawBody))
	if err != nil {
		return ForwardResult{Err: fmt.Errorf("n8nclient: build forward request: %w", err)}
	}
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ForwardResult{Err: fmt.Errorf("n8nclient: forward to %s: %w", webhookURL, err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("forward returned non-2xx status", "url", webhookURL, "status", resp.StatusCode)
	}
	return ForwardResult{StatusCode: resp.StatusCode}
}

// NewDeliveryID generates a fresh delivery identifier for forwards whose
// inbound request carried none (GitHub always sends one; this is a safety
// net, not the common path).
func NewDeliveryID() string {
	return uuid.NewString()
}
