package processors

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"answerlens/internal/core"
)

func newObservedContext(level zap.AtomicLevel) (*core.QueryContext, *observer.ObservedLogs) {
	observedCore, logs := observer.New(level)
	testLogger := zap.New(observedCore, zap.AddCaller())
	ctx := core.NewQueryContext(context.Background(), testLogger)
	ctx.Provider = "gpt3"
	ctx.Model = "text-davinci-003"
	return ctx, logs
}

func TestRequestLoggerOnRequest(t *testing.T) {
	ctx, logs := newObservedContext(zap.NewAtomicLevelAt(zap.InfoLevel))

	req := &core.GenerateRequest{Prompt: "what is go"}
	if err := NewRequestLogger().OnRequest(ctx, req); err != nil {
		t.Fatalf("OnRequest failed: %v", err)
	}
	if req.Prompt != "what is go" {
		t.Errorf("RequestLogger must not modify the prompt, got %q", req.Prompt)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Message != "Query Started" {
		t.Errorf("Expected message 'Query Started', got '%s'", entry.Message)
	}

	expectedFields := map[string]interface{}{
		"provider":     "gpt3",
		"model":        "text-davinci-003",
		"prompt_chars": int64(10),
		"request_id":   ctx.RequestID,
	}
	fields := entry.ContextMap()
	for key, expected := range expectedFields {
		if fields[key] != expected {
			t.Errorf("Expected field '%s' to be '%v', got '%v'", key, expected, fields[key])
		}
	}

	if !strings.HasSuffix(entry.Caller.File, "logger.go") {
		t.Errorf("Expected caller in processors/logger.go, got %s", entry.Caller.File)
	}
}

func TestRequestLoggerOnResponse(t *testing.T) {
	ctx, logs := newObservedContext(zap.NewAtomicLevelAt(zap.InfoLevel))
	ctx.SetMetadata(MetadataRedactions, 1)

	if err := NewRequestLogger().OnResponse(ctx, "Go is a language"); err != nil {
		t.Fatalf("OnResponse failed: %v", err)
	}

	entries := logs.FilterMessage("Query Finished").All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 'Query Finished' entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if _, found := fields["latency"]; !found {
		t.Error("Expected 'latency' field not found in log")
	}
	if fields["status"] != "Success" {
		t.Errorf("Expected status 'Success', got '%v'", fields["status"])
	}
	if fields["answer_chars"] != int64(16) {
		t.Errorf("Expected answer_chars 16, got %v", fields["answer_chars"])
	}
	if _, found := fields["redactions"]; !found {
		t.Error("Expected 'redactions' field")
	}
}

func TestRequestLoggerPriority(t *testing.T) {
	l := NewRequestLogger()
	g := NewPrivacyGuard()
	if l.Priority() >= g.Priority() {
		t.Errorf("request logger must run before the privacy guard")
	}
	if l.Name() != "request-logger" || g.Name() != "privacy-guard" {
		t.Errorf("unexpected names %s %s", l.Name(), g.Name())
	}
}
