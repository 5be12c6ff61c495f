package responder

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"sergeai-server/internal/domain"
)

const systemPrompt = "You are SergeAI, a supportive mental health assistant. " +
	"Be empathetic, helpful, and always prioritize user safety. If someone " +
	"expresses suicidal thoughts or crisis, direct them to professional help " +
	"immediately. Keep responses conversational and supportive."

// Generator produces an assistant reply from the user message plus recent
// conversation history. The external model is an opaque collaborator.
type Generator interface {
	Generate(ctx context.Context, userMessage string, history []domain.ChatMessage) (string, error)
}

// OpenAIGenerator calls a hosted chat model through langchaingo.
type OpenAIGenerator struct {
	llm *openai.LLM
}

func NewOpenAIGenerator(apiKey, model string) (*OpenAIGenerator, error) {
	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	return &OpenAIGenerator{llm: llm}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, userMessage string, history []domain.ChatMessage) (string, error) {
	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt))
	for _, msg := range history {
		role := schema.ChatMessageTypeHuman
		if msg.Role == domain.RoleAssistant {
			role = schema.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Content))
	}
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeHuman, userMessage))

	resp, err := g.llm.GenerateContent(ctx, messages,
		llms.WithMaxTokens(200),
		llms.WithTemperature(0.7),
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Content, nil
}

var _ Generator = (*OpenAIGenerator)(nil)
