package params

import (
	"fmt"
	"sort"
	"sync"

	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
)

// Bounds applied when merging parameter updates. Values outside these
// ranges are clamped, never rejected.
const (
	MinTemperature      = 0.0
	MaxTemperature      = 2.0
	MinTopP             = 0.0
	MaxTopP             = 1.0
	MinFrequencyPenalty = 0.0
	MaxFrequencyPenalty = 2.0
	MinMaxTokens        = 1
	MaxMaxTokens        = 4096
)

// presets are complete parameter tuples selectable by name.
var presets = map[string]models.ParameterProfile{
	"creative": {Temperature: 0.9, MaxTokens: 2048, TopP: 0.9, FrequencyPenalty: 0.5},
	"balanced": {Temperature: 0.7, MaxTokens: 2048, TopP: 1.0, FrequencyPenalty: 0.0},
	"precise":  {Temperature: 0.3, MaxTokens: 1024, TopP: 0.8, FrequencyPenalty: 0.2},
}

// Default returns the initial parameter profile.
func Default() models.ParameterProfile {
	return models.ParameterProfile{
		Temperature:      0.7,
		MaxTokens:        2048,
		TopP:             1.0,
		FrequencyPenalty: 0.0,
	}
}

// PresetNames lists the available preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Manager holds one workspace's generation-parameter profile. Updates merge
// partially: unspecified fields keep their prior value.
type Manager struct {
	mu      sync.Mutex
	profile models.ParameterProfile
}

// NewManager creates a manager holding the default profile.
func NewManager() *Manager {
	return &Manager{profile: Default()}
}

// Profile returns the current profile.
func (m *Manager) Profile() models.ParameterProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

// Update merges the patch into the profile, clamping provided fields to
// their bounds, and returns the merged result.
func (m *Manager) Update(patch models.ParameterPatch) models.ParameterProfile {
	m.mu.Lock()
	defer m.mu.Unlock()

	if patch.Temperature != nil {
		m.profile.Temperature = clampFloat(*patch.Temperature, MinTemperature, MaxTemperature)
	}
	if patch.MaxTokens != nil {
		m.profile.MaxTokens = clampInt(*patch.MaxTokens, MinMaxTokens, MaxMaxTokens)
	}
	if patch.TopP != nil {
		m.profile.TopP = clampFloat(*patch.TopP, MinTopP, MaxTopP)
	}
	if patch.FrequencyPenalty != nil {
		m.profile.FrequencyPenalty = clampFloat(*patch.FrequencyPenalty, MinFrequencyPenalty, MaxFrequencyPenalty)
	}
	return m.profile
}

// ApplyPreset replaces the profile wholesale with the named preset.
func (m *Manager) ApplyPreset(name string) (models.ParameterProfile, error) {
	preset, ok := presets[name]
	if !ok {
		return models.ParameterProfile{}, fmt.Errorf("%w: unknown preset %q", domain.ErrNotFound, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = preset
	return m.profile, nil
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
