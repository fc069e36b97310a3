package interfaces

import (
	"context"

	"volume-chat/internal/types"
)

// ChatStreamer sends the whole history to a model and reports each text
// fragment to onDelta as it arrives. It returns the full reply text.
type ChatStreamer interface {
	Stream(ctx context.Context, turns []types.Turn, onDelta func(string)) (string, error)
}
