package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"

	"todoapi/internal/model"
)

const systemPrompt = "You are a task management assistant. " +
	"Use the available tools to create, list, update, complete and delete " +
	"the user's tasks. Answer concisely and confirm every change you make."

// ChatConfig carries the chat model settings.
type ChatConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// ChatService answers conversation messages with a tool-calling agent.
type ChatService struct {
	agent *react.Agent
}

// NewChatService builds a react agent over an OpenAI-compatible chat model
// armed with the task tools.
func NewChatService(ctx context.Context, cfg ChatConfig, tools []tool.BaseTool) (*ChatService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("chat model API key is required")
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}

	reactAgent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: chatModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: tools,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init react agent: %w", err)
	}

	return &ChatService{agent: reactAgent}, nil
}

// Reply generates an assistant reply for the given conversation history.
// The latest user message is expected to be the last history entry.
func (s *ChatService) Reply(ctx context.Context, history []model.Message) (string, error) {
	messages := make([]*schema.Message, 0, len(history)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))

	for i := range history {
		msg := &history[i]
		var role schema.RoleType
		switch msg.Role {
		case model.RoleUser:
			role = schema.User
		case model.RoleAssistant:
			role = schema.Assistant
		case model.RoleSystem:
			role = schema.System
		default:
			role = schema.User
		}
		messages = append(messages, &schema.Message{
			Role:    role,
			Content: msg.Content,
		})
	}

	reply, err := s.agent.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	return reply.Content, nil
}
