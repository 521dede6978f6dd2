package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/yusufkecer/health-agent-backend/internal/domain"
)

const defaultModel = "gpt-4o-mini"

// Client talks to an OpenAI-compatible chat completions endpoint. Every
// call is a single attempt; provider failures surface as UpstreamError and
// are never retried here.
type Client struct {
	client openaigo.Client
	model  string
}

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("agent client config incomplete: base URL is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("agent client config incomplete: api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		client: openaigo.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
			option.WithRequestTimeout(timeout),
			option.WithMaxRetries(0),
		),
		model: model,
	}, nil
}

// FetchSuggestion asks the model for a structured recommendation document
// in JSON mode and normalizes the response into a Suggestion.
func (c *Client) FetchSuggestion(ctx context.Context, agentCtx domain.AgentContext) (*domain.Suggestion, error) {
	params := openaigo.ChatCompletionNewParams{
		Model:       openaigo.ChatModel(c.model),
		Messages:    suggestionMessages(agentCtx),
		Temperature: openaigo.Float(0.7),
		ResponseFormat: openaigo.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, &domain.UpstreamError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &domain.UpstreamError{Err: errors.New("response has no choices")}
	}

	suggestion, err := parseSuggestion(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, &domain.UpstreamError{Err: err}
	}
	return suggestion, nil
}

// StreamChat streams a chat turn. Incremental text is forwarded through
// emit as it arrives; the trailing change marker is held back and parsed
// into the terminal chunk once the stream completes.
func (c *Client) StreamChat(ctx context.Context, req domain.ChatRequest, emit func(domain.StreamChunk) error) error {
	params := openaigo.ChatCompletionNewParams{
		Model:       openaigo.ChatModel(c.model),
		Messages:    chatMessages(req),
		Temperature: openaigo.Float(0.7),
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	splitter := newMarkerSplitter(changeMarker)
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		if safe := splitter.push(delta); safe != "" {
			if err := emit(domain.StreamChunk{Content: safe}); err != nil {
				return err
			}
		}
	}
	if err := stream.Err(); err != nil {
		return &domain.UpstreamError{Err: err}
	}

	visible, tail := splitter.finish()
	content := strings.TrimSpace(visible)
	if content == "" && tail == "" {
		return &domain.UpstreamError{Err: errors.New("stream produced no content")}
	}

	changes, err := parseChangeMarker(tail)
	if err != nil {
		return &domain.UpstreamError{Err: err}
	}

	return emit(domain.StreamChunk{
		Content:    content,
		NeedChange: len(changes) > 0,
		ChangeLog:  changes,
		IsFinal:    true,
	})
}
