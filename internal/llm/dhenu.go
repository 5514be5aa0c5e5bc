// Package llm asks the Dhenu chat-completion model a single question.
package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// FallbackAnswer substitutes for a reply when the model is unreachable. The
// substitution is applied by the orchestrator, not here: this client reports
// failure explicitly and lets the caller decide the degrade policy.
const FallbackAnswer = "Error fetching response."

// Client wraps the Dhenu chat/completions endpoint, which speaks the OpenAI
// wire format.
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

// Ask sends a single-turn request carrying only the current question. No
// prior conversation is forwarded; displayed history is visual context only.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	})
	if err != nil {
		return "", fmt.Errorf("dhenu completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("dhenu completion: empty choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// RewritePersona applies the fixed persona-name substitutions to a reply
// before it is shown or persisted.
func RewritePersona(text string) string {
	out := strings.Replace(text, "Dhenu2", "Your Farming Assistant", 1)
	out = strings.Replace(out, "KissanAI", "Mr. Mehra", 1)
	return out
}
