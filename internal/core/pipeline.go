package core

import (
	"sort"
)

// Pipeline holds a collection of processors and manages their execution
type Pipeline struct {
	processors []Processor
}

// NewPipeline creates a new pipeline instance
func NewPipeline(processors ...Processor) *Pipeline {
	p := &Pipeline{processors: make([]Processor, 0, len(processors))}
	for _, proc := range processors {
		p.AddProcessor(proc)
	}
	return p
}

// AddProcessor adds a processor, keeping the list ordered by priority.
// Processors with equal priority run in insertion order.
func (p *Pipeline) AddProcessor(processor Processor) {
	p.processors = append(p.processors, processor)
	sort.SliceStable(p.processors, func(i, j int) bool {
		return p.processors[i].Priority() < p.processors[j].Priority()
	})
}

// Processors returns the processors in execution order.
func (p *Pipeline) Processors() []Processor {
	out := make([]Processor, len(p.processors))
	copy(out, p.processors)
	return out
}

// ExecuteRequest runs every OnRequest in priority order, stopping at the first error
func (p *Pipeline) ExecuteRequest(ctx *QueryContext, req *GenerateRequest) error {
	if p == nil {
		return nil
	}
	for _, processor := range p.processors {
		if err := processor.OnRequest(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteResponse runs every OnResponse in priority order, stopping at the first error
func (p *Pipeline) ExecuteResponse(ctx *QueryContext, answer string) error {
	if p == nil {
		return nil
	}
	for _, processor := range p.processors {
		if err := processor.OnResponse(ctx, answer); err != nil {
			return err
		}
	}
	return nil
}
