package ai

import (
	"context"
	"fmt"
	"github.com/myrjola/dossier/internal/errors"
	"github.com/myrjola/dossier/internal/models"
	"github.com/sashabaranov/go-openai"
	"log/slog"
	"strings"
)

// Config configures a Client. BaseURL is only needed for OpenAI compatible endpoints other than the default.
type Config struct {
	APIKey  string
	BaseURL string
}

type Client struct {
	client *openai.Client
}

func NewClient(cfg Config) *Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(config),
	}
}

// MaxTokens bounds the answer of ChooseAction, which only ever names one action id.
const MaxTokens = 16

func (c *Client) SyncCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (
	openai.ChatCompletionResponse, error) {
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:       openai.GPT3Dot5Turbo1106,
			MaxTokens:   MaxTokens,
			Temperature: 0,
			Messages:    messages,
		},
	)
	if err != nil {
		return openai.ChatCompletionResponse{}, errors.Wrap(err, "create chat completion")
	}
	return completion, nil
}

const systemPrompt = `You map an investigator's free-text instruction to exactly one action id.
Answer with one id from the list below and nothing else. Answer "none" if no action fits.
%s`

// ChooseAction asks the model which of actions best matches text. The answer is returned verbatim apart
// from trimming, so callers must validate it against actions.
func (c *Client) ChooseAction(ctx context.Context, text string, actions []models.ActionOption) (string, error) {
	var list strings.Builder
	for _, a := range actions {
		_, _ = fmt.Fprintf(&list, "- %s: %s. %s\n", a.ID, a.Label, a.Desc)
	}
	completion, err := c.SyncCompletion(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPrompt, list.String())}, //nolint:exhaustruct // plain text.
		{Role: openai.ChatMessageRoleUser, Content: text},                                        //nolint:exhaustruct // plain text.
	})
	if err != nil {
		return "", errors.Wrap(err, "choose action", slog.String("text", text))
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("completion without choices")
	}
	return strings.Trim(strings.TrimSpace(completion.Choices[0].Message.Content), "`\"'."), nil
}
