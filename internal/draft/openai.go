// internal/draft/openai.go
package draft

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/rs/zerolog/log"
)

/*
 * OpenAI-backed draft generation.
 *
 * Wraps the chat completions API behind the Generator interface. The
 * system prompt pins the output contract; history turns replay the
 * conversation so follow-up guidance refines the previous draft.
 *
 * Temperature stays low: rule generation wants the most probable reading
 * of the guidance, not creative variation.
 */

const (
	defaultChatModel   = "gpt-4o"
	defaultTemperature = 0.2
)

// OpenAIGenerator generates rule drafts through the OpenAI chat API.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

// NewOpenAIGenerator builds a generator. baseURL and model are optional;
// an empty baseURL uses the public API and an empty model falls back to
// defaultChatModel.
func NewOpenAIGenerator(apiKey, baseURL, model string) *OpenAIGenerator {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = defaultChatModel
	}
	return &OpenAIGenerator{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// GenerateDraft runs one drafting turn. Transport and empty-completion
// problems error; replies that are not drafts come back as conversational
// results via ParseResponse.
func (g *OpenAIGenerator) GenerateDraft(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
	}
	for _, turn := range req.History {
		if turn.Role == RoleAssistant {
			messages = append(messages, openai.AssistantMessage(turn.Content))
			continue
		}
		messages = append(messages, openai.UserMessage(turn.Content))
	}
	messages = append(messages, openai.UserMessage(buildUserPrompt(req)))

	log.Debug().
		Str("model", g.model).
		Int("messages", len(messages)).
		Msg("draft: requesting completion")

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(g.model),
		Messages:    messages,
		Temperature: openai.Float(defaultTemperature),
	})
	if err != nil {
		log.Error().Err(err).Msg("draft: completion failed")
		return Result{}, fmt.Errorf("generate draft: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, errors.New("generate draft: no choices returned")
	}

	result := ParseResponse(resp.Choices[0].Message.Content)
	log.Debug().
		Bool("needs_more_info", result.NeedsMoreInfo).
		Msg("draft: completion parsed")
	return result, nil
}
