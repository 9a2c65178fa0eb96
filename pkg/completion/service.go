// Package completion defines the provider-agnostic contract the runtime
// uses to call a language model. Concrete adapters (HTTP-backed
// providers, a DUI subprocess engine, or a deterministic local bot for
// tests) live in subpackages; the core depends only on this interface.
package completion

import "context"

// Message is one turn in a conversation sent to a model.
type Message struct {
	Role    string // "system" | "user" | "assistant"
	Content string
}

// StopReason describes why the model stopped generating.
type StopReason string

const (
	StopEndTurn   StopReason = "end_turn"
	StopMaxTokens StopReason = "max_tokens"
)

// Usage reports token accounting for a completion call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Request is the opaque-to-the-caller input to a completion call.
type Request struct {
	Messages    []Message
	Model       string
	Temperature float64
	MaxTokens   int
}

// Response is the result of a completion call.
type Response struct {
	Content    string
	Usage      Usage
	StopReason StopReason
}

// Service is the single operation the runtime depends on. The runtime
// treats it as opaque; provider-specific adapters live outside the core.
type Service interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
