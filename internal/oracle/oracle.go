// Package oracle adapts an OpenAI-style chat-completion capability into
// the association and theming calls the puzzle engine consumes.
//
// Every outbound call is metered against the caller-supplied budget
// counter before it is issued; a spent budget fails fast with
// apperr.ErrQuotaExceeded without touching the network.
package oracle

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/budget"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/parser"
)

// completer is the slice of *openai.Client the oracle uses, extracted so
// tests can substitute a scripted implementation.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client talks to the external association oracle.
type Client struct {
	chat   completer
	model  string
	budget *budget.Counter
}

// New creates an oracle client backed by the OpenAI API.
func New(apiKey, model string, b *budget.Counter) *Client {
	return &Client{
		chat:   openai.NewClient(apiKey),
		model:  model,
		budget: b,
	}
}

// Associations asks the oracle for association candidates for word.
// Failure modes follow the engine's error taxonomy: ErrQuotaExceeded when
// the budget is spent (raised before the call), ErrFetch on transport
// failure, ErrOracleRefused / ErrInsufficientAssociations on unusable
// output. No failure is ever papered over with a fallback list.
func (c *Client) Associations(ctx context.Context, word string) ([]models.Association, error) {
	if err := c.budget.Take(); err != nil {
		return nil, err
	}

	raw, err := c.complete(ctx, associationSystemPrompt, associationUserPrompt(word))
	if err != nil {
		return nil, fmt.Errorf("oracle: associations for %q: %v: %w", word, err, apperr.ErrFetch)
	}

	entries, err := parser.ParseAssociations(raw)
	if err != nil {
		return nil, fmt.Errorf("oracle: associations for %q: %w", word, err)
	}
	slog.Debug("oracle: associations fetched",
		slog.String("word", word),
		slog.Int("count", len(entries)))
	return entries, nil
}

// Theme asks the oracle for a thematic label for a start/target pair.
// Best effort: callers substitute a generic label on any error.
func (c *Client) Theme(ctx context.Context, start, target string) (models.Theme, error) {
	if err := c.budget.Take(); err != nil {
		return models.Theme{}, err
	}

	raw, err := c.complete(ctx, themeSystemPrompt, themeUserPrompt(start, target))
	if err != nil {
		return models.Theme{}, fmt.Errorf("oracle: theme for %q/%q: %v: %w", start, target, err, apperr.ErrFetch)
	}
	return parser.ParseTheme(raw)
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.8,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
