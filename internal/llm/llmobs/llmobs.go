package llmobs

import (
	"context"
	"time"

	"volume-chat/internal/interfaces"
	"volume-chat/internal/logger"
	"volume-chat/internal/types"
)

// observableStreamer wraps a ChatStreamer with observability (logging & tracing)
type observableStreamer struct {
	streamer interfaces.ChatStreamer
}

// Compile-time interface check
var _ interfaces.ChatStreamer = (*observableStreamer)(nil)

// Wrap wraps a streamer with observability middleware
func Wrap(streamer interfaces.ChatStreamer) interfaces.ChatStreamer {
	return &observableStreamer{
		streamer: streamer,
	}
}

// Stream relays a model stream with observability
func (ob *observableStreamer) Stream(ctx context.Context, turns []types.Turn, onDelta func(string)) (string, error) {
	ctx, span := logger.StartSpan(ctx, "llm.Stream")
	defer span.End()

	start := time.Now()
	chunks := 0
	var firstChunk time.Duration

	logger.DebugSkip(ctx, 1, "Requesting model reply", "turns", len(turns))

	text, err := ob.streamer.Stream(ctx, turns, func(delta string) {
		if chunks == 0 {
			firstChunk = time.Since(start)
		}
		chunks++
		if onDelta != nil {
			onDelta(delta)
		}
	})
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Model stream failed", err,
			"turns", len(turns),
			"chunks", chunks,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Model reply received",
		"turns", len(turns),
		"chunks", chunks,
		"reply_length", len(text),
		"first_chunk_ms", firstChunk.Milliseconds(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return text, nil
}
