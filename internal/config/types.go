package config

// ServiceConfig holds the connection settings for one backend service.
// A service is considered configured only when both URL and APIKey are
// non-empty; anything less means the service is simply absent, which is
// a valid state, not an error.
type ServiceConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"apiKey"`
}

// Configured reports whether both the URL and the credential are set.
func (s ServiceConfig) Configured() bool {
	return s.URL != "" && s.APIKey != ""
}

// ServicesConfig holds one ServiceConfig per known backend family.
type ServicesConfig struct {
	Sonarr    ServiceConfig `yaml:"sonarr"`
	Radarr    ServiceConfig `yaml:"radarr"`
	Lidarr    ServiceConfig `yaml:"lidarr"`
	Readarr   ServiceConfig `yaml:"readarr"`
	Prowlarr  ServiceConfig `yaml:"prowlarr"`
	Overseerr ServiceConfig `yaml:"overseerr"`
	Tautulli  ServiceConfig `yaml:"tautulli"`
}

// LoggingConfig controls log output. File is optional; when set, logs are
// teed into it in addition to stderr. Stdout is never written to — the MCP
// transport owns it.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// GuidesConfig controls the community configuration-guideline dataset fetch.
type GuidesConfig struct {
	BaseURL    string `yaml:"baseURL"`
	TTLMinutes int    `yaml:"ttlMinutes"`
}

// Config is the root configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Services ServicesConfig `yaml:"services"`
	Guides   GuidesConfig   `yaml:"guides"`
}
