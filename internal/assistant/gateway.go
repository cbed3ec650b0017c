package assistant

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"

	"github.com/dvloznov/expense-assistant/internal/logger"
)

// ModelError wraps a failed model invocation after the fallback policy is
// exhausted.
type ModelError struct {
	// RateLimited is true when the final failure was a rate-limit signal.
	RateLimited bool
	Err         error
}

func (e *ModelError) Error() string {
	if e.RateLimited {
		return fmt.Sprintf("model rate limited: %v", e.Err)
	}
	return fmt.Sprintf("model call failed: %v", e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// Gateway invokes the remote model with a two-tier degrade-on-overload
// policy: the primary model is called once, and only a rate-limit failure
// triggers a single invocation of the lite model (which itself retries
// once). Quality is traded for availability exactly once per turn.
type Gateway struct {
	client  ModelClient
	primary string
	lite    string
}

// NewGateway wires a gateway over the given client and model pair.
func NewGateway(client ModelClient, primaryModel, liteModel string) *Gateway {
	return &Gateway{client: client, primary: primaryModel, lite: liteModel}
}

// Converse sends one turn to the model and returns the raw response text.
// Failures come back as *ModelError.
func (g *Gateway) Converse(ctx context.Context, req Request) (string, error) {
	log := logger.FromContext(ctx)

	raw, err := g.client.Generate(ctx, g.primary, req)
	if err == nil {
		return raw, nil
	}
	if !isRateLimit(err) {
		return "", &ModelError{Err: err}
	}

	log.Warn().
		Str("primary", g.primary).
		Str("fallback", g.lite).
		Msg("primary model rate limited, falling back")

	// One fallback invocation with a single internal retry, same inputs.
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 1), ctx)
	var out string
	op := func() error {
		var ferr error
		out, ferr = g.client.Generate(ctx, g.lite, req)
		return ferr
	}
	if ferr := backoff.Retry(op, policy); ferr != nil {
		return "", &ModelError{RateLimited: isRateLimit(ferr), Err: ferr}
	}
	return out, nil
}
