// Package chat implements one browser session's conversation: it routes each
// message to a volume lookup or to the model and keeps the turn history and
// the display list in step.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"volume-chat/internal/intent"
	"volume-chat/internal/interfaces"
	"volume-chat/internal/logger"
	"volume-chat/internal/types"
	"volume-chat/internal/ui"
)

var (
	// ErrBusy is returned while the previous reply is still in flight.
	ErrBusy = errors.New("a reply is still in progress")
	// ErrEmptyInput is returned for blank messages.
	ErrEmptyInput = errors.New("input is empty")
)

// StreamErrorText is shown when the model stream fails.
const StreamErrorText = "Error occurred"

// DisplayMessage is the view-side projection of one turn. User messages are
// static text; assistant messages carry a live Reply.
type DisplayMessage struct {
	ID    string
	Role  string
	Text  string
	Reply *ui.Stream
}

type Session struct {
	id       string
	streamer interfaces.ChatStreamer
	fetcher  interfaces.TickerFetcher

	mu       sync.Mutex
	history  []types.Turn
	display  []DisplayMessage
	inflight *ui.Stream
}

func NewSession(id string, streamer interfaces.ChatStreamer, fetcher interfaces.TickerFetcher) *Session {
	return &Session{
		id:       id,
		streamer: streamer,
		fetcher:  fetcher,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Continue records input and starts the assistant reply in the background.
// The returned assistant message's Reply reaches a terminal status once the
// reply is complete and the history has been updated.
func (s *Session) Continue(ctx context.Context, input string) (user, assistant DisplayMessage, err error) {
	if strings.TrimSpace(input) == "" {
		return DisplayMessage{}, DisplayMessage{}, ErrEmptyInput
	}

	s.mu.Lock()
	if s.inflight != nil && !s.inflight.Snapshot().Status.Terminal() {
		s.mu.Unlock()
		return DisplayMessage{}, DisplayMessage{}, ErrBusy
	}

	user = DisplayMessage{ID: uuid.NewString(), Role: types.RoleUser, Text: input}
	assistant = DisplayMessage{ID: uuid.NewString(), Role: types.RoleAssistant, Reply: ui.NewStream(ui.Thinking())}
	s.display = append(s.display, user, assistant)
	s.inflight = assistant.Reply
	history := append([]types.Turn(nil), s.history...)
	s.mu.Unlock()

	// the reply outlives the request that started it
	go s.respond(context.WithoutCancel(ctx), input, history, assistant.Reply)

	return user, assistant, nil
}

func (s *Session) respond(ctx context.Context, input string, history []types.Turn, reply *ui.Stream) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorWithErr(ctx, "Reply panicked", fmt.Errorf("panic: %v", r), "session", s.id)
			reply.Fail(ui.Error("", StreamErrorText))
		}
	}()

	route := intent.Classify(input)
	logger.Route(ctx, route.String(), route.Symbol, input, "session", s.id)

	if route.Volume {
		s.replyWithVolume(ctx, input, route.Symbol, reply)
		return
	}
	s.replyWithModel(ctx, input, history, reply)
}

func (s *Session) replyWithVolume(ctx context.Context, input, symbol string, reply *ui.Stream) {
	reply.Update(ui.Fetching(symbol))

	snap, err := s.fetcher.TradingDay(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Error fetching Binance data", err, "symbol", symbol, "session", s.id)
		s.commit(input, "Failed to fetch volume for "+symbol)
		reply.Fail(ui.Error(symbol, ""))
		return
	}

	s.commit(input, "Fetched volume for "+symbol)
	reply.DoneWith(ui.Ticker(snap))
}

func (s *Session) replyWithModel(ctx context.Context, input string, history []types.Turn, reply *ui.Stream) {
	turns := append(history, types.Turn{Role: types.RoleUser, Content: input})

	var acc strings.Builder
	text, err := s.streamer.Stream(ctx, turns, func(delta string) {
		acc.WriteString(delta)
		reply.Update(ui.Text(acc.String()))
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Error in conversation stream", err, "session", s.id)
		reply.Fail(ui.Error("", StreamErrorText))
		return
	}

	s.commit(input, text)
	reply.DoneWith(ui.Text(text))
}

// commit appends the user turn and its assistant answer together.
func (s *Session) commit(input, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history,
		types.Turn{Role: types.RoleUser, Content: input},
		types.Turn{Role: types.RoleAssistant, Content: answer},
	)
}

// History returns a copy of the committed turns.
func (s *Session) History() []types.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.Turn(nil), s.history...)
}

// Messages returns a copy of the display list.
func (s *Session) Messages() []DisplayMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]DisplayMessage(nil), s.display...)
}

// Busy reports whether a reply is still in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight != nil && !s.inflight.Snapshot().Status.Terminal()
}
