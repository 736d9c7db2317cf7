package ai

import "context"

// Oracle is the minimal interface implemented by text-completion backends.
// Responses are untrusted: possibly empty, malformed, or wrapped in
// markdown. Callers sanitize and validate everything they get back.
type Oracle interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest carries a single prompt plus sampling options.
type CompletionRequest struct {
	Prompt      string
	Temperature float64
	// JSONFormat asks the runtime to force structured output when the
	// model supports it. It is a hint, not a guarantee.
	JSONFormat bool
}

// CompletionResponse is the raw text of one completion.
type CompletionResponse struct {
	Text string
	// RequestID correlates log lines for one exchange.
	RequestID string
}
