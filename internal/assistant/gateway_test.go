package assistant

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// mockModelClient is a ModelClient mock recording every invocation.
type mockModelClient struct {
	GenerateFunc func(ctx context.Context, model string, req Request) (string, error)
	calls        []mockCall
}

type mockCall struct {
	model string
	req   Request
}

func (m *mockModelClient) Generate(ctx context.Context, model string, req Request) (string, error) {
	m.calls = append(m.calls, mockCall{model: model, req: req})
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, model, req)
	}
	return `{"type": "clarification", "question": "ok"}`, nil
}

func testRequest() Request {
	return Request{System: "system prompt", Message: "I spent 50 on food"}
}

func TestConversePrimarySuccess(t *testing.T) {
	client := &mockModelClient{
		GenerateFunc: func(ctx context.Context, model string, req Request) (string, error) {
			return "response", nil
		},
	}
	g := NewGateway(client, "primary-model", "lite-model")

	raw, err := g.Converse(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if raw != "response" {
		t.Errorf("raw = %q", raw)
	}
	if len(client.calls) != 1 || client.calls[0].model != "primary-model" {
		t.Errorf("calls = %+v, want exactly one primary call", client.calls)
	}
}

func TestConverseRateLimitFallsBack(t *testing.T) {
	client := &mockModelClient{
		GenerateFunc: func(ctx context.Context, model string, req Request) (string, error) {
			if model == "primary-model" {
				return "", errors.New("429 Too Many Requests")
			}
			return "lite response", nil
		},
	}
	g := NewGateway(client, "primary-model", "lite-model")

	req := testRequest()
	raw, err := g.Converse(context.Background(), req)
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if raw != "lite response" {
		t.Errorf("raw = %q", raw)
	}
	if len(client.calls) != 2 {
		t.Fatalf("calls = %d, want primary then fallback", len(client.calls))
	}
	if client.calls[1].model != "lite-model" {
		t.Errorf("fallback model = %q", client.calls[1].model)
	}
	// The fallback receives identical inputs.
	if !reflect.DeepEqual(client.calls[1].req, req) {
		t.Errorf("fallback request = %+v, want identical to primary", client.calls[1].req)
	}
}

func TestConverseNonRateLimitNeverFallsBack(t *testing.T) {
	client := &mockModelClient{
		GenerateFunc: func(ctx context.Context, model string, req Request) (string, error) {
			return "", errors.New("invalid request")
		},
	}
	g := NewGateway(client, "primary-model", "lite-model")

	_, err := g.Converse(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected error")
	}
	var modelErr *ModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("err = %T, want *ModelError", err)
	}
	if modelErr.RateLimited {
		t.Error("non-rate-limit failure marked as rate limited")
	}
	if len(client.calls) != 1 {
		t.Errorf("calls = %d, fallback must not trigger", len(client.calls))
	}
}

func TestConverseFallbackRetriesOnce(t *testing.T) {
	var liteCalls int
	client := &mockModelClient{
		GenerateFunc: func(ctx context.Context, model string, req Request) (string, error) {
			if model == "primary-model" {
				return "", errors.New("rate limit exceeded")
			}
			liteCalls++
			if liteCalls == 1 {
				return "", errors.New("transient failure")
			}
			return "second try", nil
		},
	}
	g := NewGateway(client, "primary-model", "lite-model")

	raw, err := g.Converse(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if raw != "second try" {
		t.Errorf("raw = %q", raw)
	}
	if liteCalls != 2 {
		t.Errorf("lite calls = %d, want initial attempt plus one retry", liteCalls)
	}
}

func TestConverseFallbackExhausted(t *testing.T) {
	client := &mockModelClient{
		GenerateFunc: func(ctx context.Context, model string, req Request) (string, error) {
			return "", fmt.Errorf("too many requests for %s", model)
		},
	}
	g := NewGateway(client, "primary-model", "lite-model")

	_, err := g.Converse(context.Background(), testRequest())
	var modelErr *ModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("err = %T, want *ModelError", err)
	}
	if !modelErr.RateLimited {
		t.Error("exhausted rate-limit fallback must surface as rate limited")
	}
}

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("429 Too Many Requests"), true},
		{errors.New("status 429"), true},
		{errors.New("Too Many Requests"), true},
		{errors.New("rate limit exceeded"), true},
		{errors.New("invalid argument"), false},
		{errors.New("internal server error"), false},
	}
	for _, tt := range tests {
		if got := isRateLimit(tt.err); got != tt.want {
			t.Errorf("isRateLimit(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
