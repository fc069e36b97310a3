package main

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volume-chat/internal/chat"
	"volume-chat/internal/render"
	"volume-chat/internal/types"
)

// gatedStreamer sends first, waits for gate, then sends rest.
type gatedStreamer struct {
	first, rest string
	gate        chan struct{}
	err         error
}

func (g *gatedStreamer) Stream(ctx context.Context, turns []types.Turn, onDelta func(string)) (string, error) {
	onDelta(g.first)
	if g.gate != nil {
		<-g.gate
	}
	if g.err != nil {
		return "", g.err
	}
	onDelta(g.rest)
	return g.first + g.rest, nil
}

type fixedFetcher struct{}

func (fixedFetcher) TradingDay(ctx context.Context, symbol string) (types.TickerSnapshot, error) {
	return types.TickerSnapshot{Symbol: symbol, Volume: 1000, LastPrice: 50000}, nil
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTerm(t *testing.T) *render.Terminal {
	t.Helper()
	term, err := render.NewTerminal(80)
	require.NoError(t, err)
	return term
}

func TestAskRawStreamsIncrementally(t *testing.T) {
	streamer := &gatedStreamer{first: "Hel", rest: "lo world", gate: make(chan struct{})}
	sess := chat.NewSession("cli", streamer, fixedFetcher{})

	term := newTerm(t)
	var out, progress syncBuffer
	errc := make(chan error, 1)
	go func() {
		errc <- ask(context.Background(), &out, &progress, sess, term, "hi", true)
	}()

	// the first chunk is printed while the reply is still open
	assert.Eventually(t, func() bool { return out.String() == "Hel" }, 2*time.Second, 5*time.Millisecond)
	close(streamer.gate)

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ask never returned")
	}
	assert.Equal(t, "Hello world\n", out.String())
}

func TestAskFailedReplyReturnsError(t *testing.T) {
	streamer := &gatedStreamer{first: "par", err: errors.New("upstream closed")}
	sess := chat.NewSession("cli", streamer, fixedFetcher{})

	var out, progress syncBuffer
	err := ask(context.Background(), &out, &progress, sess, newTerm(t), "hi", false)
	assert.ErrorIs(t, err, errReplyFailed)
	assert.Contains(t, out.String(), chat.StreamErrorText)
	assert.Empty(t, sess.History())
}

func TestAskVolumeRendersCard(t *testing.T) {
	sess := chat.NewSession("cli", &gatedStreamer{}, fixedFetcher{})

	var out, progress syncBuffer
	err := ask(context.Background(), &out, &progress, sess, newTerm(t), "What's the volume of Bitcoin?", false)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "BTCUSDT")
	assert.Contains(t, out.String(), "50,000")
	assert.Len(t, sess.History(), 2)
}

func TestAskRejectsEmptyInput(t *testing.T) {
	sess := chat.NewSession("cli", &gatedStreamer{}, fixedFetcher{})

	var out, progress syncBuffer
	err := ask(context.Background(), &out, &progress, sess, newTerm(t), "  ", false)
	assert.ErrorIs(t, err, chat.ErrEmptyInput)
	assert.Empty(t, out.String())
}
