package noop

import (
	"context"
	"strings"

	"volume-chat/internal/logger"
	"volume-chat/internal/types"
)

// EchoStreamer is the offline fallback used when no model provider is
// configured. It streams the last user message back word by word.
type EchoStreamer struct{}

func NewEchoStreamer() *EchoStreamer {
	return &EchoStreamer{}
}

func (e *EchoStreamer) Stream(ctx context.Context, turns []types.Turn, onDelta func(string)) (string, error) {
	logger.Debug(ctx, "Echo streamer called - no model provider configured", "turns", len(turns))

	var last string
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == types.RoleUser {
			last = turns[i].Content
			break
		}
	}

	reply := "No model provider is configured. You said: " + last
	var sb strings.Builder
	for i, word := range strings.Fields(reply) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if i > 0 {
			word = " " + word
		}
		sb.WriteString(word)
		if onDelta != nil {
			onDelta(word)
		}
	}
	return sb.String(), nil
}
