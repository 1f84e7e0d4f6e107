package providers

import (
	"context"
	"testing"

	"github.com/tidwall/gjson"

	"answerlens/internal/core"
)

func TestChatStream(t *testing.T) {
	var captured capturedRequest
	ts := newSSEServer(t, []string{
		`{"id":"chatcmpl-1","choices":[{"index":0,"delta":{"role":"assistant"},"finish_reason":null}]}`,
		`{"id":"chatcmpl-1","choices":[{"index":0,"delta":{"content":"Hello"},"finish_reason":null}]}`,
		`{"id":"chatcmpl-1","choices":[{"index":0,"delta":{"content":" world"},"finish_reason":null}]}`,
		`{"id":"chatcmpl-1","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
		"[DONE]",
	}, &captured)

	p := NewChatProvider(core.ProviderConfig{Endpoint: ts.URL}, ts.Client(), nil)
	s, err := p.GenerateAnswer(context.Background(), core.GenerateRequest{Prompt: "say hello"})
	if err != nil {
		t.Fatalf("GenerateAnswer failed: %v", err)
	}
	events, err := collectEvents(t, s)
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("expected 2 answers and done, got %d: %+v", len(events), events)
	}
	last := events[1].(*core.AnswerEvent)
	if last.Text != "Hello world" || last.MessageID != "chatcmpl-1" {
		t.Errorf("unexpected answer %+v", last)
	}

	if captured.path != "/v1/chat/completions" {
		t.Errorf("path = %q", captured.path)
	}
	if captured.header.Get("Authorization") != "" {
		t.Error("no Authorization header expected without a key")
	}
	if got := gjson.Get(captured.body, "model").String(); got != DefaultChatModel {
		t.Errorf("model = %q", got)
	}
	if got := gjson.Get(captured.body, "messages.0.content").String(); got != "say hello" {
		t.Errorf("content = %q", got)
	}
	if got := gjson.Get(captured.body, "messages.0.role").String(); got != "user" {
		t.Errorf("role = %q", got)
	}
	if !gjson.Get(captured.body, "stream").Bool() {
		t.Error("stream must be true")
	}
}

func TestChatWithKey(t *testing.T) {
	var captured capturedRequest
	ts := newSSEServer(t, []string{"[DONE]"}, &captured)

	p := NewChatProvider(core.ProviderConfig{Endpoint: ts.URL + "/", APIKey: "sk-chat", Model: "gpt-4o-mini"}, ts.Client(), nil)
	if p.Model() != "gpt-4o-mini" || p.ID() != "chatgpt" {
		t.Errorf("unexpected provider %s/%s", p.ID(), p.Model())
	}
	s, err := p.GenerateAnswer(context.Background(), core.GenerateRequest{Prompt: "q"})
	if err != nil {
		t.Fatalf("GenerateAnswer failed: %v", err)
	}
	if _, err := core.Collect(s); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if got := captured.header.Get("Authorization"); got != "Bearer sk-chat" {
		t.Errorf("Authorization = %q", got)
	}
	if got := gjson.Get(captured.body, "model").String(); got != "gpt-4o-mini" {
		t.Errorf("model = %q", got)
	}
}

func TestDecodeChatFrame(t *testing.T) {
	testCases := []struct {
		name      string
		payload   string
		wantToken string
		wantSkip  bool
		wantErr   bool
	}{
		{"content", `{"id":"c","choices":[{"delta":{"content":"x"}}]}`, "x", false, false},
		{"role only", `{"id":"c","choices":[{"delta":{"role":"assistant"}}]}`, "", true, false},
		{"empty content", `{"id":"c","choices":[{"delta":{"content":""}}]}`, "", true, false},
		{"null content", `{"id":"c","choices":[{"delta":{"content":null}}]}`, "", true, false},
		{"no choices", `{"id":"c","choices":[]}`, "", false, true},
		{"numeric content", `{"id":"c","choices":[{"delta":{"content":1}}]}`, "", false, true},
		{"invalid", `{`, "", false, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := decodeChatFrame(tc.payload)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if f.token != tc.wantToken || f.skip != tc.wantSkip {
				t.Errorf("frame = %+v", f)
			}
		})
	}
}
