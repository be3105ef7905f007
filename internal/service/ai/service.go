package ai

import (
	"context"
	"errors"
	"fmt"

	"brookschat/internal/config"
	"brookschat/internal/models"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const claudeMaxTokens = 4000

// Service wraps one configured chat model behind a provider switch. The API
// key is server-side configuration; visitors never supply credentials.
type Service struct {
	chatModel model.BaseChatModel
}

// NewService builds the chat model for the named provider.
func NewService(cfg *config.Config, provider string) (*Service, error) {
	provCfg, ok := cfg.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("provider %s not configured", provider)
	}
	if provCfg.APIKey == "" {
		return nil, fmt.Errorf("provider %s has no api key", provider)
	}

	var (
		chatModel model.BaseChatModel
		err       error
	)
	switch provider {
	case "openai":
		chatModel, err = openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
			BaseURL: provCfg.BaseURL,
			Model:   provCfg.Model,
			APIKey:  provCfg.APIKey,
		})
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: provCfg.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(context.Background(), &gemini.Config{
			Client: client,
			Model:  provCfg.Model,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(context.Background(), &claude.Config{
			APIKey:    provCfg.APIKey,
			Model:     provCfg.Model,
			BaseURL:   baseURLPtr,
			MaxTokens: claudeMaxTokens,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", provider, err)
	}
	return &Service{chatModel: chatModel}, nil
}

// Reply sends the system prompt, prior history, and the new user input to the
// model and returns the assistant's reply.
func (s *Service) Reply(ctx context.Context, system string, history []models.Message, userInput string) (string, error) {
	if userInput == "" {
		return "", errors.New("user input is empty")
	}

	messages := make([]*schema.Message, 0, len(history)+2)
	if system != "" {
		messages = append(messages, schema.SystemMessage(system))
	}
	for _, msg := range history {
		switch msg.Role {
		case models.RoleUser:
			messages = append(messages, schema.UserMessage(msg.Content))
		case models.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(msg.Content, nil))
		}
		// Other roles are not part of the conversation transcript.
	}
	messages = append(messages, schema.UserMessage(userInput))

	resp, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	return resp.Content, nil
}
