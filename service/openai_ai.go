package service

import (
	"context"
	"errors"
	"math"

	"github.com/sashabaranov/go-openai"
)

// OpenAIService answers prompts through any OpenAI-compatible chat
// completion endpoint (OpenAI itself, Groq, or a local server).
type OpenAIService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService(baseURL, apiKey, model string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL
	return &OpenAIService{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Answer sends the rendered prompt as a single user message. Temperature
// is pinned to zero so the JSON contract in the prompt is followed as
// deterministically as the model allows; the library omits a plain 0, so
// the smallest positive float stands in for it.
func (s *OpenAIService) Answer(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: math.SmallestNonzeroFloat32,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}
	return resp.Choices[0].Message.Content, nil
}

// Healthy lists models as a cheap reachability and credentials check.
func (s *OpenAIService) Healthy(ctx context.Context) error {
	_, err := s.client.ListModels(ctx)
	return err
}
