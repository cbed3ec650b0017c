// Package speech defines the optional speech-capture capability. A host
// without a recognizer still runs the assistant; the absence is surfaced as
// a user-visible notice, not an error.
package speech

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrUnsupported signals that the host environment has no speech capability.
var ErrUnsupported = errors.New("speech recognition is not supported in this environment")

// EventKind tags recognizer session events.
type EventKind int

const (
	// EventStart signals that the listening session is live.
	EventStart EventKind = iota
	// EventResult carries an interim or final transcript.
	EventResult
	// EventError carries a listening error; the session ends after it.
	EventError
	// EventEnd signals the end of the session.
	EventEnd
)

// Event is one recognizer session event.
type Event struct {
	Kind       EventKind
	Transcript string
	Err        error
}

// Recognizer is a cancellable listening session source.
type Recognizer interface {
	// Listen starts a session and streams events until the session ends,
	// the context is cancelled, or Stop is called. It returns
	// ErrUnsupported when the capability is absent.
	Listen(ctx context.Context) (<-chan Event, error)
	Stop()
}

// Unsupported is the recognizer used when the host has no speech capability.
type Unsupported struct{}

func (Unsupported) Listen(ctx context.Context) (<-chan Event, error) {
	return nil, ErrUnsupported
}

func (Unsupported) Stop() {}

// Stream adapts a line-oriented transcript source (a pipe, a file, an STT
// process's stdout) into a Recognizer. Each line is emitted as an interim
// result; the joined text accumulates across results like a live transcript.
type Stream struct {
	r io.Reader

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewStream creates a recognizer reading transcript lines from r.
func NewStream(r io.Reader) *Stream {
	return &Stream{r: r}
}

func (s *Stream) Listen(ctx context.Context) (<-chan Event, error) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	events := make(chan Event)
	go func() {
		defer close(events)
		defer cancel()

		events <- Event{Kind: EventStart}

		var parts []string
		scanner := bufio.NewScanner(s.r)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				events <- Event{Kind: EventEnd}
				return
			default:
			}
			parts = append(parts, strings.TrimSpace(scanner.Text()))
			events <- Event{Kind: EventResult, Transcript: strings.Join(parts, " ")}
		}
		if err := scanner.Err(); err != nil {
			events <- Event{Kind: EventError, Err: err}
		}
		events <- Event{Kind: EventEnd}
	}()
	return events, nil
}

// Stop cancels the live session, if any.
func (s *Stream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

var (
	_ Recognizer = Unsupported{}
	_ Recognizer = (*Stream)(nil)
)
