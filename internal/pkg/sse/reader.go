// Package sse reads the data payloads of a server-sent event stream.
package sse

import (
	"bufio"
	"io"
	"strings"
)

const maxFrameSize = 1 << 20

// Reader yields one data payload per event. Multi-line data fields are
// joined with "\n"; comments and non-data fields are ignored.
type Reader struct {
	scanner *bufio.Scanner
	data    []string
	err     error
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
	return &Reader{scanner: scanner}
}

// Next returns the next payload. It returns io.EOF once the stream is
// exhausted; a trailing event without a blank line is still delivered.
func (r *Reader) Next() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	for r.scanner.Scan() {
		line := strings.TrimSuffix(r.scanner.Text(), "\r")

		if line == "" {
			if payload, ok := r.flush(); ok {
				return payload, nil
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		if field != "data" {
			continue
		}
		r.data = append(r.data, strings.TrimPrefix(value, " "))
	}

	if err := r.scanner.Err(); err != nil {
		r.err = err
		return "", err
	}
	r.err = io.EOF
	if payload, ok := r.flush(); ok {
		return payload, nil
	}
	return "", io.EOF
}

func (r *Reader) flush() (string, bool) {
	if len(r.data) == 0 {
		return "", false
	}
	payload := strings.Join(r.data, "\n")
	r.data = r.data[:0]
	return payload, true
}
