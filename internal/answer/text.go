package answer

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"answerlens/internal/core"
	"answerlens/internal/remote"
)

// TextRenderer writes the answer to a terminal as it grows. Each answer
// event carries the full text so far; only the new suffix is written.
type TextRenderer struct {
	mu      sync.Mutex
	w       io.Writer
	printed string
}

// NewTextRenderer creates a renderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) RenderStatus(status Status) {
	if status != StatusSuccess {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.printed != "" && !strings.HasSuffix(r.printed, "\n") {
		fmt.Fprintln(r.w)
	}
}

func (r *TextRenderer) RenderAnswer(answer core.AnswerEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if strings.HasPrefix(answer.Text, r.printed) {
		io.WriteString(r.w, answer.Text[len(r.printed):])
	} else {
		// the provider rewrote earlier text; start over on a new line
		fmt.Fprintf(r.w, "\n%s", answer.Text)
	}
	r.printed = answer.Text
}

// RenderError is a no-op; the caller reports the error returned by Run.
func (r *TextRenderer) RenderError(error) {}

func (r *TextRenderer) RenderSupplement(p *remote.Promotion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "\n---\n%s\n", p.Title)
	if p.Text != "" {
		fmt.Fprintln(r.w, p.Text)
	}
	if p.URL != "" {
		fmt.Fprintln(r.w, p.URL)
	}
}
