package core

// Event is one item of an answer stream. It is either an *AnswerEvent or a
// *DoneEvent; consumers switch on the concrete type.
type Event interface {
	isEvent()
}

// AnswerEvent carries the full answer accumulated so far.
type AnswerEvent struct {
	Text           string
	MessageID      string
	ConversationID string
}

// DoneEvent terminates a stream. It is emitted exactly once.
type DoneEvent struct{}

func (*AnswerEvent) isEvent() {}
func (*DoneEvent) isEvent()   {}
