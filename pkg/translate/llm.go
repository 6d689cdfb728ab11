package translate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// hindiNamePrompt instructs the model to answer with nothing but the
// Devanagari rendering; anything chattier breaks downstream parsing.
const hindiNamePrompt = "You translate Indian health facility and person names from English to Hindi. " +
	"Reply with the Hindi name only, in Devanagari script, with no explanation or punctuation around it."

// LLMTranslator resolves names with a chat-completion model. It handles
// the inputs the web endpoint garbles: mixed-script keys, abbreviations
// like CHC and PHC, and names with embedded district qualifiers.
type LLMTranslator struct {
	client *openai.Client
	model  string
}

// LLMConfig holds configuration for an LLMTranslator.
type LLMConfig struct {
	// APIKey authenticates against the completion API. Required.
	APIKey string

	// Model is the completion model. Default: openai.GPT4oMini.
	Model string

	// BaseURL overrides the API base URL, for proxies and compatible
	// providers.
	BaseURL string

	// HTTPClient overrides the underlying HTTP client, mainly for tests.
	HTTPClient *http.Client
}

// NewLLMTranslator creates an LLMTranslator with the given configuration.
func NewLLMTranslator(config LLMConfig) (*LLMTranslator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.HTTPClient != nil {
		clientConfig.HTTPClient = config.HTTPClient
	}

	model := config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &LLMTranslator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Translate asks the model for the Hindi rendering of a name. Blank input
// returns empty output without an API call.
func (t *LLMTranslator) Translate(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", nil
	}

	response, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: hindiNamePrompt},
			{Role: openai.ChatMessageRoleUser, Content: name},
		},
		MaxTokens:   120,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", &ServiceError{StatusCode: http.StatusOK, Message: "no completion choices"}
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// TranslateToHindi is Translate under the name the web client exposes,
// so either translator can stand behind the same interface.
func (t *LLMTranslator) TranslateToHindi(ctx context.Context, name string) (string, error) {
	return t.Translate(ctx, name)
}
