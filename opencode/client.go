package opencode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fwojciec/mend"
	"github.com/google/uuid"
)

// Interface compliance check.
var _ mend.Generator = (*Client)(nil)

// Client implements [mend.Generator] for an OpenCode server.
type Client struct {
	baseURL    string
	provider   string
	model      string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the server base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithProvider routes requests to a provider configured on the server.
func WithProvider(provider string) Option {
	return func(c *Client) { c.provider = provider }
}

// WithModel overrides the server's default model.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new OpenCode [Client] with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CreateSession asks the server for a fresh session and returns its id.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sessionPath, nil)
	if err != nil {
		return "", fmt.Errorf("opencode: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("opencode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", parseHTTPError(resp)
	}

	var sr sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("opencode: decode session: %w", err)
	}
	if sr.ID == "" {
		return "", fmt.Errorf("opencode: server returned empty session id")
	}
	return sr.ID, nil
}

// Send delivers prompt to the session and returns the reply parts once
// the generation completes.
func (c *Client) Send(ctx context.Context, sessionID string, prompt mend.Prompt) ([]mend.Part, error) {
	body, err := json.Marshal(messageRequest{
		MessageID:  "msg_" + uuid.NewString(),
		ProviderID: c.provider,
		ModelID:    c.model,
		Parts:      convertParts(prompt.Parts()),
	})
	if err != nil {
		return nil, fmt.Errorf("opencode: %w", err)
	}

	url := c.baseURL + sessionPath + "/" + sessionID + "/message"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("opencode: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("opencode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(resp)
	}

	var mr messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("opencode: decode reply: %w", err)
	}
	return convertReply(mr.Parts), nil
}

// Events subscribes to the server's process-wide event feed.
func (c *Client) Events(ctx context.Context) (mend.Feed, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+eventPath, nil)
	if err != nil {
		return nil, fmt.Errorf("opencode: %w", err)
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("opencode: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}

	return newFeed(resp.Body), nil
}

func convertParts(parts []mend.Part) []messagePart {
	result := make([]messagePart, 0, len(parts))
	for _, p := range parts {
		switch pt := p.(type) {
		case mend.TextPart:
			result = append(result, messagePart{Type: "text", Text: pt.Text})
		case mend.FilePart:
			result = append(result, messagePart{
				Type:    "file",
				Path:    pt.Path,
				MIME:    pt.MIME,
				Content: pt.Text,
			})
		}
	}
	return result
}

func convertReply(parts []messagePart) []mend.Part {
	var result []mend.Part
	for _, p := range parts {
		switch p.Type {
		case "text":
			result = append(result, mend.TextPart{Text: p.Text})
		case "file":
			result = append(result, mend.FilePart{Path: p.Path, MIME: p.MIME, Text: p.Content})
		}
		// Unknown part types are dropped.
	}
	return result
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("opencode: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error == "" {
		return fmt.Errorf("opencode: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("opencode: %s", apiErr.Error)
}
