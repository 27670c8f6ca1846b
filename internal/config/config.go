package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// DefaultGuidesBaseURL points at the public mirror of the community
// configuration-guideline dataset.
const DefaultGuidesBaseURL = "https://raw.githubusercontent.com/TRaSH-Guides/Guides/master/metadata/json"

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Guides: GuidesConfig{
			BaseURL:    DefaultGuidesBaseURL,
			TTLMinutes: 60,
		},
	}
}
