package core

// Processor is a middleware step around a query
type Processor interface {
	// Name returns the processor name
	Name() string
	// Priority returns the execution priority (lower = earlier)
	Priority() int
	// OnRequest may rewrite the request before it is sent to the provider
	OnRequest(ctx *QueryContext, req *GenerateRequest) error
	// OnResponse is called with the final answer once the stream completed
	OnResponse(ctx *QueryContext, answer string) error
}
