package options

import (
	"fmt"
	"io"
	"sync"
)

// Notifier shows panel feedback to the user. Alert is blocking: it returns
// only once the user has seen the message. Toast is transient.
type Notifier interface {
	Alert(msg string)
	Toast(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Alert(string) {}
func (nopNotifier) Toast(string) {}

// WriterNotifier prints alerts and toasts as lines on w.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier creates a notifier for terminal use.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Alert(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "error: %s\n", msg)
}

func (n *WriterNotifier) Toast(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, msg)
}

// Recorder keeps every message it is shown, for callers that report
// feedback somewhere other than a screen.
type Recorder struct {
	mu     sync.Mutex
	alerts []string
	toasts []string
}

func (r *Recorder) Alert(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, msg)
}

func (r *Recorder) Toast(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, msg)
}

// Alerts returns the alerts shown so far.
func (r *Recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

// Toasts returns the toasts shown so far.
func (r *Recorder) Toasts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.toasts...)
}
