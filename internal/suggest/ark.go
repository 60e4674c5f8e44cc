package suggest

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"journal-cli/internal/config"
)

// ArkSuggester asks an Ark-hosted chat model for an entry title via an
// eino prompt+model chain.
type ArkSuggester struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewArkSuggester compiles the suggestion chain. Returns an error when the
// Ark credentials are missing; callers then run without a suggester and
// rely on the fallback title.
func NewArkSuggester(ctx context.Context, cfg *config.Config) (*ArkSuggester, error) {
	if cfg.ArkAPIKey == "" {
		return nil, fmt.Errorf("ARK_API_KEY not configured")
	}

	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL: cfg.ArkBaseURL,
		APIKey:  cfg.ArkAPIKey,
		Model:   cfg.ArkModel,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.UserMessage("Create a short, creative title (max 6 words) for this journal entry through which it could easily be recognised. Response should be just the title without quotes: {content}..."),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile suggestion chain: %w", err)
	}
	return &ArkSuggester{chain: runnable}, nil
}

func (s *ArkSuggester) Suggest(ctx context.Context, content string) (string, error) {
	msg, err := s.chain.Invoke(ctx, map[string]any{"content": content})
	if err != nil {
		return "", fmt.Errorf("run suggestion chain: %w", err)
	}
	return msg.Content, nil
}
