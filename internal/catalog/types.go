package catalog

// ModelInfo describes one selectable chat model.
type ModelInfo struct {
	ID            string `yaml:"id" json:"id"`
	Name          string `yaml:"name" json:"name"`
	Description   string `yaml:"description" json:"description"`
	ContextWindow string `yaml:"context_window" json:"contextWindow"`
	Speed         string `yaml:"speed" json:"speed"`

	// Mock marks models served locally with synthesized replies rather
	// than a hosted inference API.
	Mock bool `yaml:"mock" json:"mock"`
}

// TemplateParams are the generation parameters a prompt template suggests.
type TemplateParams struct {
	Temperature float64 `yaml:"temperature" json:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" json:"maxTokens"`
}

// Template is a reusable prompt with placeholder slots the user fills in.
type Template struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Category    string          `yaml:"category" json:"category"`
	Description string          `yaml:"description" json:"description"`
	Prompt      string          `yaml:"prompt" json:"prompt"`
	Parameters  *TemplateParams `yaml:"parameters" json:"parameters,omitempty"`
}

type catalogFile struct {
	Models    []ModelInfo `yaml:"models"`
	Templates []Template  `yaml:"templates"`
}
