package illustrate

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const requestTimeout = 90 * time.Second

// Client renders short texts into illustration cards through an
// OpenAI-compatible image generation endpoint.
type Client struct {
	client openai.Client
	model  string
}

func NewClient(apiKey, baseURL, model string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Render turns the text into PNG bytes, compressed for chat upload. Callers
// fall back to plain text on any error.
func (c *Client) Render(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	prompt := "A warm, soft anime-style illustration card for a relationship game. " +
		"Render the following status text onto the card in a clean, readable layout:\n\n" + text

	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(c.model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize1024x1024,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("generate image: empty response")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	return Compress(raw)
}
