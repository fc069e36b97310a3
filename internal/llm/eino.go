package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"volume-chat/internal/interfaces"
	"volume-chat/internal/logger"
	"volume-chat/internal/types"
)

// ErrStream wraps any failure while opening or reading a model stream.
var ErrStream = errors.New("model stream failed")

// EinoStreamer streams chat completions from any eino chat model.
type EinoStreamer struct {
	model       model.BaseChatModel
	system      string
	temperature float32
	maxTokens   int
}

var _ interfaces.ChatStreamer = (*EinoStreamer)(nil)

type StreamerOption func(*EinoStreamer)

func WithSystemPrompt(system string) StreamerOption {
	return func(s *EinoStreamer) { s.system = system }
}

func WithTemperature(t float32) StreamerOption {
	return func(s *EinoStreamer) { s.temperature = t }
}

func WithMaxTokens(n int) StreamerOption {
	return func(s *EinoStreamer) { s.maxTokens = n }
}

func NewEinoStreamer(m model.BaseChatModel, opts ...StreamerOption) *EinoStreamer {
	s := &EinoStreamer{model: m, temperature: 0.7}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stream sends turns to the model and relays every non-empty content chunk.
func (s *EinoStreamer) Stream(ctx context.Context, turns []types.Turn, onDelta func(string)) (string, error) {
	msgs := toMessages(s.system, turns)

	opts := []model.Option{model.WithTemperature(s.temperature)}
	if s.maxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(s.maxTokens))
	}

	logger.Debug(ctx, "Opening model stream", "messages", len(msgs), "temperature", s.temperature)

	sr, err := s.model.Stream(ctx, msgs, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStream, err)
	}
	defer sr.Close()

	var chunks []*schema.Message
	for {
		chunk, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrStream, err)
		}
		if chunk == nil {
			continue
		}
		chunks = append(chunks, chunk)
		if chunk.Content != "" && onDelta != nil {
			onDelta(chunk.Content)
		}
	}

	if len(chunks) == 0 {
		return "", nil
	}
	final, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStream, err)
	}
	return final.Content, nil
}

func toMessages(system string, turns []types.Turn) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(turns)+1)
	if system != "" {
		msgs = append(msgs, schema.SystemMessage(system))
	}
	for _, t := range turns {
		switch t.Role {
		case types.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(t.Content, nil))
		default:
			msgs = append(msgs, schema.UserMessage(t.Content))
		}
	}
	return msgs
}
