package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIClient struct {
	client *openai.Client
	model  openai.ChatModel
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client: &client,
		model:  openai.ChatModelGPT4oMini,
	}
}

func (c *OpenAIClient) Identify(ctx context.Context, text string, companies []string) (string, error) {
	content, err := c.complete(ctx, identifySystemPrompt, identifyUserPrompt(text, companies))
	if err != nil {
		return "", err
	}
	return normalizeAnswer(content), nil
}

func (c *OpenAIClient) Synthesize(ctx context.Context, primaryText, marketContext string) (string, error) {
	return c.complete(ctx, synthesizeSystemPrompt, synthesizeUserPrompt(primaryText, marketContext))
}

func (c *OpenAIClient) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}
