package core

import (
	"errors"
	"io"
	"iter"
)

// ErrStreamClosed is returned by Next after Close was called.
var ErrStreamClosed = errors.New("stream closed")

// ErrIncompleteStream is returned when the transport ends before the
// completion marker arrives.
var ErrIncompleteStream = errors.New("stream ended without completion marker")

// EventStream is a lazy, finite, non-restartable sequence of events.
//
// Next blocks until the next event is available. After the DoneEvent has
// been returned, Next returns io.EOF. Cancelling the context the stream was
// opened with aborts it; Next then returns the context error. Close releases
// the underlying connection and is safe to call more than once.
type EventStream interface {
	Next() (Event, error)
	Close() error
}

// All adapts s to a range-over-func iterator. Iteration stops after the
// DoneEvent, on the first error (which is yielded), or when the loop breaks.
// The stream is closed when iteration ends.
func All(s EventStream) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		defer s.Close()
		for {
			ev, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(ev, nil) {
				return
			}
			if _, done := ev.(*DoneEvent); done {
				return
			}
		}
	}
}

// Collect drains s and returns the final accumulated answer.
func Collect(s EventStream) (string, error) {
	var answer string
	for ev, err := range All(s) {
		if err != nil {
			return answer, err
		}
		if a, ok := ev.(*AnswerEvent); ok {
			answer = a.Text
		}
	}
	return answer, nil
}
