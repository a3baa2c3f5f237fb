package analysis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.groq.com"

// completion requests can take a while on long prompts; the provider call
// gets a hard cap instead of hanging the session forever.
const requestTimeout = 60 * time.Second

// Client requests technical-analysis commentary from an OpenAI-compatible
// chat-completions endpoint.
type Client struct {
	http     *resty.Client
	apiKey   string
	model    string
	sanitize bool
}

// Request carries everything the prompt template needs.
type Request struct {
	Symbol    string
	Timeframe string
	Lang      string
	Price     float64
}

// NewClient builds a completion client for the given model. When sanitize
// is set, responses are stripped to a per-language character allow-list
// before being returned.
func NewClient(apiKey, model string, sanitize bool) *Client {
	c := resty.New()
	c.SetBaseURL(defaultBaseURL)
	c.SetTimeout(requestTimeout)
	return &Client{http: c, apiKey: apiKey, model: model, sanitize: sanitize}
}

// SetBaseURL overrides the provider endpoint, used by tests.
func (c *Client) SetBaseURL(url string) {
	c.http.SetBaseURL(url)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze sends the templated prompt and returns the first choice's content,
// trimmed. Callers substitute the localized failure string on error; nothing
// here is user-facing.
func (c *Client) Analyze(ctx context.Context, req Request) (string, error) {
	payload := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: buildPrompt(req)}},
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(payload).
		Post("/openai/v1/chat/completions")
	if err != nil {
		return "", errors.Wrap(err, "completion request failed")
	}
	if !res.IsSuccess() {
		return "", errors.Errorf("completion request failed: HTTP %d", res.StatusCode())
	}

	var body chatResponse
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		return "", errors.Wrap(err, "decode completion response")
	}
	if len(body.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}

	text := strings.TrimSpace(body.Choices[0].Message.Content)
	if c.sanitize {
		text = sanitize(text, req.Lang)
	}
	log.Debugf("analysis for %s/%s: %d chars", req.Symbol, req.Timeframe, len(text))
	return text, nil
}
