package core

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type recordingProcessor struct {
	name     string
	priority int
	calls    *[]string
	err      error
}

func (r *recordingProcessor) Name() string  { return r.name }
func (r *recordingProcessor) Priority() int { return r.priority }

func (r *recordingProcessor) OnRequest(ctx *QueryContext, req *GenerateRequest) error {
	*r.calls = append(*r.calls, "req:"+r.name)
	req.Prompt += "+" + r.name
	return r.err
}

func (r *recordingProcessor) OnResponse(ctx *QueryContext, answer string) error {
	*r.calls = append(*r.calls, "resp:"+r.name)
	return r.err
}

func TestPipelineRunsInPriorityOrder(t *testing.T) {
	var calls []string
	p := NewPipeline(
		&recordingProcessor{name: "guard", priority: 100, calls: &calls},
		&recordingProcessor{name: "log", priority: -100, calls: &calls},
		&recordingProcessor{name: "mid", priority: 0, calls: &calls},
	)

	ctx := NewQueryContext(context.Background(), nil)
	req := &GenerateRequest{Prompt: "q"}
	if err := p.ExecuteRequest(ctx, req); err != nil {
		t.Fatalf("ExecuteRequest failed: %v", err)
	}
	if err := p.ExecuteResponse(ctx, "a"); err != nil {
		t.Fatalf("ExecuteResponse failed: %v", err)
	}

	want := []string{"req:log", "req:mid", "req:guard", "resp:log", "resp:mid", "resp:guard"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if req.Prompt != "q+log+mid+guard" {
		t.Errorf("prompt = %q", req.Prompt)
	}
}

func TestPipelineStopsOnError(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	p := NewPipeline(
		&recordingProcessor{name: "first", priority: 1, calls: &calls, err: boom},
		&recordingProcessor{name: "second", priority: 2, calls: &calls},
	)

	err := p.ExecuteRequest(NewQueryContext(context.Background(), nil), &GenerateRequest{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(calls) != 1 {
		t.Errorf("expected a single call, got %v", calls)
	}
}

func TestNilPipeline(t *testing.T) {
	var p *Pipeline
	if err := p.ExecuteRequest(nil, &GenerateRequest{}); err != nil {
		t.Errorf("nil pipeline should be a no-op, got %v", err)
	}
	if err := p.ExecuteResponse(nil, ""); err != nil {
		t.Errorf("nil pipeline should be a no-op, got %v", err)
	}
}

func TestQueryContextMetadata(t *testing.T) {
	ctx := NewQueryContext(context.Background(), nil)
	if ctx.RequestID == "" || ctx.RequestID[:2] != "q_" {
		t.Errorf("unexpected request id %q", ctx.RequestID)
	}

	ctx.SetMetadata("redactions", 2)
	v, ok := ctx.GetMetadata("redactions")
	if !ok || v != 2 {
		t.Errorf("GetMetadata = %v, %v", v, ok)
	}

	snapshot := ctx.Metadata()
	snapshot["redactions"] = 5
	if v, _ := ctx.GetMetadata("redactions"); v != 2 {
		t.Error("Metadata should return a copy")
	}
}
