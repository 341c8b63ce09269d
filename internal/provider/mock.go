package provider

import (
	"context"
	"fmt"
	"strings"

	loremgen "github.com/bozaro/golorem"

	"promptdeck/internal/domain/models"
)

// excerptLength is how much of the prompt a mock reply echoes back.
const excerptLength = 80

// MockProvider synthesizes demo replies locally from the model name, the
// parameters and a prompt excerpt. It needs no credentials and never fails
// on valid input; an unsupported model is a programming error, not a
// user-facing failure.
type MockProvider struct {
	displayNames map[string]string
	generator    *loremgen.Lorem
}

// NewMockProvider creates a provider serving the demo models.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		displayNames: map[string]string{
			"gpt-4":       "GPT-4",
			"claude-opus": "Claude",
		},
		generator: loremgen.New(),
	}
}

// Name returns the provider name.
func (p *MockProvider) Name() string {
	return "mock"
}

// SupportsModel reports whether model is one of the demo models.
func (p *MockProvider) SupportsModel(model string) bool {
	_, ok := p.displayNames[model]
	return ok
}

// Generate synthesizes a templated reply echoing the model, the effective
// parameters and a prompt excerpt, padded with filler text sized by the
// max-tokens setting.
func (p *MockProvider) Generate(_ context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	display, ok := p.displayNames[req.Model]
	if !ok {
		return nil, fmt.Errorf("model %q is not supported by mock provider", req.Model)
	}

	lines := []string{
		fmt.Sprintf("%s responding...", display),
		fmt.Sprintf("- Temperature: %g", req.Params.Temperature),
		fmt.Sprintf("- Max Tokens: %d", req.Params.MaxTokens),
		"",
	}
	if req.Note != "" {
		lines = append(lines, req.Note, "")
	}
	if req.Edited {
		lines = append(lines, fmt.Sprintf("Updated reply for: %q", excerpt(req.Prompt)))
	} else {
		lines = append(lines, fmt.Sprintf("Here's my take on: %q", excerpt(req.Prompt)))
	}
	lines = append(lines, "", p.fillerText(req.Params))

	return &GenerateResponse{
		Content: strings.Join(lines, "\n"),
		Model:   req.Model,
	}, nil
}

// fillerText produces lorem ipsum sized roughly by max tokens (about one
// word per 16 tokens, capped to keep demo replies readable).
func (p *MockProvider) fillerText(params models.ParameterProfile) string {
	words := params.MaxTokens / 16
	if words < 10 {
		words = 10
	}
	if words > 120 {
		words = 120
	}

	var sb strings.Builder
	count := 0
	for count < words {
		sentence := p.generator.Sentence(5, 15)
		sb.WriteString(sentence)
		sb.WriteString(" ")
		count += len(strings.Fields(sentence))
	}
	return strings.TrimSpace(sb.String())
}

func excerpt(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= excerptLength {
		return prompt
	}
	return string(runes[:excerptLength])
}
