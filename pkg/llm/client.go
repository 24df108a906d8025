package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"moremorelove/pkg/gal"
)

const requestTimeout = 120 * time.Second

// thinkRegex matches <think>...</think> content, including newlines.
// (?s) enables the dot (.) to match new lines. Some reasoning models leak
// these blocks into completions.
var thinkRegex = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Client is the LLM provider backed by any OpenAI-compatible chat
// completion endpoint. It satisfies gal.Provider.
type Client struct {
	client      openai.Client
	model       string
	temperature float64
	topP        float64
}

// NewClient builds a provider. baseURL may be empty for the default OpenAI
// endpoint.
func NewClient(apiKey, baseURL, model string, temperature, topP float64) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		client:      openai.NewClient(opts...),
		model:       model,
		temperature: temperature,
		topP:        topP,
	}
}

// TextChat sends one prompt plus prior turns and returns the completion
// text. The session id is forwarded as the request's user tag so the
// upstream can tie a conversation together.
func (c *Client) TextChat(ctx context.Context, prompt, sessionID string, contexts []gal.Turn, systemPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(contexts)+2)
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	for _, turn := range contexts {
		switch turn.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(turn.Content))
		case "system":
			messages = append(messages, openai.SystemMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(c.temperature),
		TopP:        openai.Float(c.topP),
	}
	if sessionID != "" {
		params.User = openai.String(sessionID)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}

	content := resp.Choices[0].Message.Content
	content = thinkRegex.ReplaceAllString(content, "")
	return strings.TrimSpace(content), nil
}
