package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	groqBaseURL     = "https://api.groq.com/openai/v1/chat/completions"
	togetherBaseURL = "https://api.together.xyz/v1/chat/completions"

	defaultTimeout = 60 * time.Second

	// Upstream error bodies are truncated before they end up in logs.
	maxErrorBodyBytes = 2048
)

// RemoteProvider calls an OpenAI-compatible chat-completions endpoint.
// It maps catalog model ids to the upstream model id the endpoint expects.
type RemoteProvider struct {
	name       string
	baseURL    string
	apiKey     string
	keyEnv     string
	models     map[string]string
	httpClient *http.Client
}

// NewRemoteProvider builds a provider for one hosted endpoint. models maps
// catalog model ids to upstream model names; keyEnv names the environment
// variable holding the credential, for configuration error messages.
func NewRemoteProvider(name, baseURL, apiKey, keyEnv string, modelMap map[string]string) *RemoteProvider {
	return &RemoteProvider{
		name:    name,
		baseURL: baseURL,
		apiKey:  apiKey,
		keyEnv:  keyEnv,
		models:  modelMap,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewGroqProvider serves the "groq" catalog model via Groq's hosted API.
func NewGroqProvider(apiKey string) *RemoteProvider {
	return NewRemoteProvider("groq", groqBaseURL, apiKey, "GROQ_API_KEY", map[string]string{
		"groq": "llama-3.1-8b-instant",
	})
}

// NewTogetherProvider serves the "together" catalog model via Together AI.
func NewTogetherProvider(apiKey string) *RemoteProvider {
	return NewRemoteProvider("together", togetherBaseURL, apiKey, "TOGETHER_API_KEY", map[string]string{
		"together": "meta-llama/Llama-2-7b-chat-hf",
	})
}

// Name returns the provider name.
func (p *RemoteProvider) Name() string {
	return p.name
}

// SupportsModel reports whether the model id maps to an upstream model.
func (p *RemoteProvider) SupportsModel(model string) bool {
	_, ok := p.models[model]
	return ok
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Model string `json:"model"`
}

// Generate posts the prompt to the chat-completions endpoint and returns
// the first choice's content. The three failure classes are surfaced as
// distinct error types; see errors.go.
func (p *RemoteProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	upstream, ok := p.models[req.Model]
	if !ok {
		return nil, fmt.Errorf("model %q is not supported by %s provider", req.Model, p.name)
	}
	if p.apiKey == "" {
		return nil, &CredentialError{Provider: p.name, EnvVar: p.keyEnv}
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model:       upstream,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Params.Temperature,
		MaxTokens:   req.Params.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Provider: p.name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &UpstreamError{Provider: p.name, Status: resp.StatusCode, Body: string(errBody)}
	}

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &UpstreamError{Provider: p.name, Status: resp.StatusCode, Body: "malformed response body"}
	}

	content := ""
	if len(parsed.Choices) > 0 {
		content = parsed.Choices[0].Message.Content
	}

	return &GenerateResponse{
		Content: content,
		Model:   req.Model,
	}, nil
}
