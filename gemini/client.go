package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/fwojciec/mend"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ mend.Generator = (*Client)(nil)

// Client implements [mend.Generator] for the Google Gemini API.
type Client struct {
	client     *genai.Client
	model      string
	baseURL    string
	httpClient *http.Client

	mu    sync.Mutex
	chats map[string]*genai.Chat
	feeds map[*feed]chan mend.Event
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-3.1-pro-preview.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		model: defaultModel,
		chats: make(map[string]*genai.Chat),
		feeds: make(map[*feed]chan mend.Event),
	}
	for _, o := range opts {
		o(c)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  c.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c.client = gc
	return c, nil
}

// CreateSession starts a chat with empty history and returns its id.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	config := &genai.GenerateContentConfig{MaxOutputTokens: defaultMaxTokens}
	chat, err := c.client.Chats.Create(ctx, c.model, config, nil)
	if err != nil {
		return "", fmt.Errorf("gemini: create chat: %w", err)
	}
	id := uuid.NewString()
	c.mu.Lock()
	c.chats[id] = chat
	c.mu.Unlock()
	return id, nil
}

// Send delivers the prompt to the session's chat and blocks until the model
// finishes responding. Chunks are published to open feeds as they arrive;
// the accumulated text is returned as a single part.
func (c *Client) Send(ctx context.Context, sessionID string, prompt mend.Prompt) ([]mend.Part, error) {
	c.mu.Lock()
	chat, ok := c.chats[sessionID]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("gemini: %w: %s", mend.ErrUnknownSession, sessionID)
	}

	var text strings.Builder
	for resp, err := range chat.SendMessageStream(ctx, FlattenPrompt(prompt)...) {
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		chunk := chunkText(resp)
		if chunk == "" {
			continue
		}
		text.WriteString(chunk)
		c.publish(mend.TextEvent{SessionID: sessionID, Text: chunk})
	}
	if text.Len() == 0 {
		return nil, nil
	}
	return []mend.Part{mend.TextPart{Text: text.String()}}, nil
}

// Events returns a feed of the client's own streaming activity. The feed
// stays subscribed until closed.
func (c *Client) Events(_ context.Context) (mend.Feed, error) {
	f := &feed{client: c, ch: make(chan mend.Event, eventBuffer)}
	c.mu.Lock()
	c.feeds[f] = f.ch
	c.mu.Unlock()
	return f, nil
}

// FlattenPrompt converts a prompt to genai Parts. File parts become text
// blocks prefixed with the file path, since chat messages carry no file
// metadata. Exported for testing.
func FlattenPrompt(prompt mend.Prompt) []genai.Part {
	parts := make([]genai.Part, 0, len(prompt.Files)+1)
	for _, p := range prompt.Parts() {
		switch pt := p.(type) {
		case mend.TextPart:
			parts = append(parts, genai.Part{Text: pt.Text})
		case mend.FilePart:
			parts = append(parts, genai.Part{Text: fmt.Sprintf("File: %s\n\n%s", pt.Path, pt.Text)})
		}
	}
	return parts
}

// chunkText collects the visible text of a streamed chunk. Thought parts
// are reasoning traces, not answer text.
func chunkText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

func (c *Client) publish(ev mend.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.feeds {
		select {
		case ch <- ev:
		default:
			// A full buffer drops the chunk rather than stalling generation.
		}
	}
}

func (c *Client) unsubscribe(f *feed) {
	c.mu.Lock()
	delete(c.feeds, f)
	c.mu.Unlock()
}
