package core

import (
	"errors"
	"io"
	"testing"
)

type sliceStream struct {
	events []Event
	err    error
	closed int
}

func (s *sliceStream) Next() (Event, error) {
	if len(s.events) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

func (s *sliceStream) Close() error {
	s.closed++
	return nil
}

func TestCollect(t *testing.T) {
	s := &sliceStream{events: []Event{
		&AnswerEvent{Text: "Hi"},
		&AnswerEvent{Text: "Hi there"},
		&DoneEvent{},
		&AnswerEvent{Text: "ignored"},
	}}

	answer, err := Collect(s)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if answer != "Hi there" {
		t.Errorf("answer = %q, want %q", answer, "Hi there")
	}
	if s.closed != 1 {
		t.Errorf("expected stream closed once, got %d", s.closed)
	}
}

func TestAllYieldsError(t *testing.T) {
	boom := errors.New("connection reset")
	s := &sliceStream{events: []Event{&AnswerEvent{Text: "partial"}}, err: boom}

	answer, err := Collect(s)
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if answer != "partial" {
		t.Errorf("answer = %q", answer)
	}
}

func TestAllBreakClosesStream(t *testing.T) {
	s := &sliceStream{events: []Event{&AnswerEvent{Text: "a"}, &AnswerEvent{Text: "ab"}}}
	for range All(s) {
		break
	}
	if s.closed != 1 {
		t.Errorf("expected stream closed after break, got %d", s.closed)
	}
}
