package core

import "context"

// GenerateRequest is submitted once per user query.
type GenerateRequest struct {
	Prompt string
}

// Provider is the LLM adapter interface
type Provider interface {
	// ID returns the unique identifier for this provider
	ID() string
	// Model returns the model the provider sends requests to
	Model() string
	// GenerateAnswer opens a streaming completion for req. ctx bounds the
	// whole stream, not just the call.
	GenerateAnswer(ctx context.Context, req GenerateRequest) (EventStream, error)
}
