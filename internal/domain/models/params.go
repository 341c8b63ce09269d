package models

// ParameterProfile holds the generation parameters sent to providers.
type ParameterProfile struct {
	Temperature      float64 `json:"temperature"`
	MaxTokens        int     `json:"max_tokens"`
	TopP             float64 `json:"top_p"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
}

// ParameterPatch is a partial profile update. Nil fields keep their prior
// value; provided fields are clamped to the documented bounds on merge.
type ParameterPatch struct {
	Temperature      *float64 `json:"temperature"`
	MaxTokens        *int     `json:"max_tokens"`
	TopP             *float64 `json:"top_p"`
	FrequencyPenalty *float64 `json:"frequency_penalty"`
}
