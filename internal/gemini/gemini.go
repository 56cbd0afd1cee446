// Package gemini implements the summarizer collaborator on top of the
// Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const modelName = "gemini-1.5-flash"

type Client struct {
	client *genai.Client
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{client: client}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Summarize asks the model for a plain-text summary of at most the given
// number of sentences. The text is whitespace-collapsed and truncated
// before prompting to keep the request bounded.
func (c *Client) Summarize(ctx context.Context, text string, sentences int) (string, error) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", nil
	}
	const maxChars = 6000
	if len(text) > maxChars {
		trimmed := text[:maxChars]
		if idx := strings.LastIndex(trimmed, ". "); idx > 1200 {
			trimmed = trimmed[:idx+1]
		}
		text = trimmed
	}

	model := c.client.GenerativeModel(modelName)
	prompt := fmt.Sprintf(
		"Summarize the following news article in at most %d sentences. "+
			"Reply with the summary only, no preamble, no labels.\n\n%s",
		sentences, text)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	summary := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	if summary == "" {
		return "", fmt.Errorf("empty summary from Gemini")
	}
	return summary, nil
}
