package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/provider"
)

type stubProvider struct {
	name    string
	models  map[string]bool
	content string
	err     error
	called  bool
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) SupportsModel(model string) bool { return s.models[model] }

func (s *stubProvider) Generate(_ context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	return &provider.GenerateResponse{Content: s.content, Model: req.Model}, nil
}

func newTestDispatcher(providers ...provider.Provider) *Dispatcher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(provider.NewRegistry(providers...), logger)
}

func TestDispatchRoutesToMatchingProvider(t *testing.T) {
	groq := &stubProvider{name: "groq", models: map[string]bool{"groq": true}, content: "from groq"}
	mock := &stubProvider{name: "mock", models: map[string]bool{"gpt-4": true}, content: "from mock"}
	d := newTestDispatcher(groq, mock)

	content, err := d.Dispatch(context.Background(), &provider.GenerateRequest{
		Prompt: "hi",
		Model:  "gpt-4",
		Params: models.ParameterProfile{MaxTokens: 512},
	})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if content != "from mock" {
		t.Errorf("content = %q, want %q", content, "from mock")
	}
	if groq.called {
		t.Error("non-matching provider was invoked")
	}
}

func TestDispatchUnknownModel(t *testing.T) {
	d := newTestDispatcher(&stubProvider{name: "mock", models: map[string]bool{"gpt-4": true}})

	_, err := d.Dispatch(context.Background(), &provider.GenerateRequest{
		Prompt: "hi",
		Model:  "no-such-model",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown model, got %v", err)
	}
}

func TestDispatchPassesProviderErrorsThrough(t *testing.T) {
	credErr := &provider.CredentialError{Provider: "groq", EnvVar: "GROQ_API_KEY"}
	d := newTestDispatcher(&stubProvider{name: "groq", models: map[string]bool{"groq": true}, err: credErr})

	_, err := d.Dispatch(context.Background(), &provider.GenerateRequest{
		Prompt: "hi",
		Model:  "groq",
	})

	var ce *provider.CredentialError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CredentialError to pass through, got %T: %v", err, err)
	}
}

func TestDispatchFirstMatchWins(t *testing.T) {
	first := &stubProvider{name: "a", models: map[string]bool{"gpt-4": true}, content: "first"}
	second := &stubProvider{name: "b", models: map[string]bool{"gpt-4": true}, content: "second"}
	d := newTestDispatcher(first, second)

	content, err := d.Dispatch(context.Background(), &provider.GenerateRequest{
		Prompt: "hi",
		Model:  "gpt-4",
	})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if content != "first" {
		t.Errorf("content = %q, want registration order to win", content)
	}
	if second.called {
		t.Error("later provider was invoked despite earlier match")
	}
}
