package llm

import "time"

// Groq serves open-weight models behind an OpenAI-compatible API.
type Groq struct {
	*OpenAICompatible
}

func NewGroq(apiKey, model string, temperature *float64, timeout time.Duration) *Groq {
	return &Groq{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:     "https://api.groq.com/openai",
			APIKey:      apiKey,
			Model:       model,
			AuthHeader:  "Authorization",
			AuthPrefix:  "Bearer ",
			Temperature: temperature,
			Timeout:     timeout,
		}),
	}
}
