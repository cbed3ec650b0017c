package assistant

import "context"

// Turn is one prior conversation turn re-expressed for the model.
type Turn struct {
	// Speaker is "user" or "model".
	Speaker string
	Text    string
}

// Request carries one complete model invocation: system instruction, prior
// turns, and the final user message.
type Request struct {
	System  string
	History []Turn
	Message string
}

// ModelClient is the raw chat-completion surface. The Gemini client
// implements it; tests substitute mocks.
type ModelClient interface {
	Generate(ctx context.Context, model string, req Request) (string, error)
}

// Notifier is the transient notification surface (warning/error/success).
type Notifier interface {
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Successf(format string, args ...interface{})
}
