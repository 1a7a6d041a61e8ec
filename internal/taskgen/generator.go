package taskgen

import "context"

// Generator produces Python tasks using an LLM provider.
type Generator interface {
	// Generate produces a single task for the given input context.
	// All configured validators are run before returning.
	Generate(ctx context.Context, input GenerateInput) (*Task, error)
}
