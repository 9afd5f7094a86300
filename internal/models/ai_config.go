package models

// AIConfig is the singleton configuration for the AI classification
// collaborator. Only the configuration is stored, the network calls
// happen outside this backend.
type AIConfig struct {
	Provider string `json:"provider"`
	Endpoint string `json:"endpoint"`
	Model    string `json:"model"`
	APIKey   string `json:"apiKey"`
	Enabled  bool   `json:"enabled"`
}

// DefaultAIConfig returns the AI configuration a fresh installation
// starts with: disabled, nothing configured.
func DefaultAIConfig() AIConfig {
	return AIConfig{
		Provider: "openai",
	}
}
