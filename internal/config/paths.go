package config

import (
	"os"
	"path/filepath"
)

const defaultBaseDir = ".arrgate"

// Paths holds resolved filesystem paths for arrgate data.
type Paths struct {
	Base   string // ~/.arrgate
	Config string // ~/.arrgate/config.yaml
	Env    string // ~/.arrgate/.env
	Logs   string // ~/.arrgate/logs
}

// ResolvePaths computes all standard paths from the home directory.
// If ARRGATE_HOME is set, it overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("ARRGATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:   base,
		Config: filepath.Join(base, "config.yaml"),
		Env:    filepath.Join(base, ".env"),
		Logs:   filepath.Join(base, "logs"),
	}, nil
}

// EnsureDirs creates all standard directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.Base, p.Logs} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}
