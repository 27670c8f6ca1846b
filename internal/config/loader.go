package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// service URL and credential fields so API keys can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	for _, svc := range serviceFields(cfg) {
		svc.cfg.URL = expandEnvVars(svc.cfg.URL)
		svc.cfg.APIKey = expandEnvVars(svc.cfg.APIKey)
	}
}

// serviceField pairs a service's env-var prefix with a pointer to its config.
type serviceField struct {
	envPrefix string
	cfg       *ServiceConfig
}

func serviceFields(cfg *Config) []serviceField {
	return []serviceField{
		{"SONARR", &cfg.Services.Sonarr},
		{"RADARR", &cfg.Services.Radarr},
		{"LIDARR", &cfg.Services.Lidarr},
		{"READARR", &cfg.Services.Readarr},
		{"PROWLARR", &cfg.Services.Prowlarr},
		{"OVERSEERR", &cfg.Services.Overseerr},
		{"TAUTULLI", &cfg.Services.Tautulli},
	}
}

// LoadEnvFile loads a dotenv file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. Missing files produce defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			normalize(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	normalize(&cfg)
	return cfg, nil
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Guides.BaseURL == "" {
		cfg.Guides.BaseURL = DefaultGuidesBaseURL
	}
	if cfg.Guides.TTLMinutes == 0 {
		cfg.Guides.TTLMinutes = 60
	}
}

// applyEnvOverrides reads {SERVICE}_URL / {SERVICE}_API_KEY environment
// variables plus ARRGATE_* settings and overrides config values.
func applyEnvOverrides(cfg *Config) {
	for _, svc := range serviceFields(cfg) {
		if v := os.Getenv(svc.envPrefix + "_URL"); v != "" {
			svc.cfg.URL = v
		}
		if v := os.Getenv(svc.envPrefix + "_API_KEY"); v != "" {
			svc.cfg.APIKey = v
		}
	}
	if v := os.Getenv("ARRGATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("ARRGATE_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}

// normalize strips trailing slashes from service URLs once at load time so
// clients can join paths without re-checking.
func normalize(cfg *Config) {
	for _, svc := range serviceFields(cfg) {
		svc.cfg.URL = strings.TrimRight(svc.cfg.URL, "/")
	}
}

// Validate checks that the configuration is usable. The only fatal condition
// is no service being configured at all: a gateway with zero backends has
// nothing to expose.
func Validate(cfg *Config) error {
	for _, svc := range serviceFields(cfg) {
		if svc.cfg.Configured() {
			return nil
		}
	}
	return &ConfigError{Message: "no services configured: set at least one {SERVICE}_URL and {SERVICE}_API_KEY pair"}
}
