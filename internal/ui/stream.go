// Package ui holds the live, incrementally updated view of one assistant
// reply. A Stream moves PENDING -> STREAMING -> DONE|FAILED and fans every
// update out to its subscribers.
package ui

import (
	"sync"
	"time"

	"volume-chat/internal/types"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusStreaming Status = "streaming"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further updates are accepted.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

type Kind string

const (
	KindThinking Kind = "thinking"
	KindFetching Kind = "fetching"
	KindText     Kind = "text"
	KindTicker   Kind = "ticker"
	KindError    Kind = "error"
)

// View is what a reply currently shows. Only the fields relevant to Kind are set.
type View struct {
	Kind   Kind                  `json:"kind"`
	Text   string                `json:"text,omitempty"`
	Symbol string                `json:"symbol,omitempty"`
	Ticker *types.TickerSnapshot `json:"ticker,omitempty"`
	At     time.Time             `json:"at"`
}

func Thinking() View { return View{Kind: KindThinking, At: time.Now()} }

func Fetching(symbol string) View {
	return View{Kind: KindFetching, Symbol: symbol, At: time.Now()}
}

func Text(s string) View { return View{Kind: KindText, Text: s, At: time.Now()} }

func Ticker(snap types.TickerSnapshot) View {
	return View{Kind: KindTicker, Symbol: snap.Symbol, Ticker: &snap, At: time.Now()}
}

// Error is the static failure view. Symbol is set on the volume path.
func Error(symbol, text string) View {
	return View{Kind: KindError, Symbol: symbol, Text: text, At: time.Now()}
}

// Frame is one published state of a Stream.
type Frame struct {
	Status Status
	View   View
}

// Stream is safe for concurrent use. Update and finish calls after a
// terminal status are ignored.
type Stream struct {
	mu     sync.Mutex
	status Status
	view   View
	subs   map[int]chan Frame
	nextID int
	done   chan struct{}
}

func NewStream(initial View) *Stream {
	return &Stream{
		status: StatusPending,
		view:   initial,
		subs:   make(map[int]chan Frame),
		done:   make(chan struct{}),
	}
}

// Update replaces the current view and moves the stream to STREAMING.
func (s *Stream) Update(v View) bool {
	return s.publish(StatusStreaming, &v)
}

// Done finalizes with the current view.
func (s *Stream) Done() bool {
	return s.publish(StatusDone, nil)
}

// DoneWith finalizes with v.
func (s *Stream) DoneWith(v View) bool {
	return s.publish(StatusDone, &v)
}

// Fail finalizes with an error view.
func (s *Stream) Fail(v View) bool {
	return s.publish(StatusFailed, &v)
}

func (s *Stream) publish(status Status, v *View) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Terminal() {
		return false
	}
	s.status = status
	if v != nil {
		s.view = *v
	}

	f := Frame{Status: s.status, View: s.view}
	for _, ch := range s.subs {
		sendLatest(ch, f)
	}
	if status.Terminal() {
		for id, ch := range s.subs {
			close(ch)
			delete(s.subs, id)
		}
		close(s.done)
	}
	return true
}

// sendLatest delivers f without blocking, dropping a stale queued frame.
// Each view carries the full accumulated content so skipping one is lossless.
func sendLatest(ch chan Frame, f Frame) {
	select {
	case ch <- f:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- f
}

// Snapshot returns the current status and view.
func (s *Stream) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Frame{Status: s.status, View: s.view}
}

// Subscribe returns a channel that first receives the current frame and then
// every later one. It is closed after the terminal frame. cancel detaches early.
func (s *Stream) Subscribe() (frames <-chan Frame, cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Frame, 1)
	ch <- Frame{Status: s.status, View: s.view}
	if s.status.Terminal() {
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			close(c)
			delete(s.subs, id)
		}
	}
}

// Finished is closed once the stream reaches DONE or FAILED.
func (s *Stream) Finished() <-chan struct{} {
	return s.done
}
