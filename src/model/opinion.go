package model

// ProviderName identifies one of the AI services asked for an opinion.
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "OpenAI"
	ProviderAnthropic ProviderName = "Anthropic"
	ProviderGemini    ProviderName = "Gemini"
)

// ProviderOrder is the fixed order used for voting tie-breaks and the analysis text.
var ProviderOrder = [3]ProviderName{ProviderOpenAI, ProviderAnthropic, ProviderGemini}

// ProviderOpinion is one provider's raw answer for a single request.
// Every field is optional because providers return loosely shaped JSON.
type ProviderOpinion struct {
	Provider   ProviderName `json:"provider"`
	Action     *string      `json:"action,omitempty"`
	Confidence *float64     `json:"confidence,omitempty"`
	Analysis   *string      `json:"analysis,omitempty"`
}

// EmptyOpinion stands in for a provider that failed or answered with garbage.
func EmptyOpinion(provider ProviderName) ProviderOpinion {
	return ProviderOpinion{Provider: provider}
}

// ConfidenceOrZero treats a missing confidence as 0.
func (o ProviderOpinion) ConfidenceOrZero() float64 {
	if o.Confidence == nil {
		return 0
	}
	return *o.Confidence
}

// AnalysisOrEmpty returns the rationale text, or "" when absent.
func (o ProviderOpinion) AnalysisOrEmpty() string {
	if o.Analysis == nil {
		return ""
	}
	return *o.Analysis
}
