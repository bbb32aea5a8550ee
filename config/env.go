package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Env holds environment overrides. Empty values mean "not set".
type Env struct {
	ConfigDir  string `envconfig:"CONFIG_DIR"`
	DaemonHost string `envconfig:"DAEMON_HOST"`
	DaemonPort int    `envconfig:"DAEMON_PORT" default:"18128"`
	DaemonSSL  bool   `envconfig:"DAEMON_SSL"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile    string `envconfig:"LOG_FILE"`
	UpdateURL  string `envconfig:"UPDATE_URL"`
}

// EnvPrefix is prepended to every variable, e.g. CIRQ_CONFIG_DIR.
const EnvPrefix = "CIRQ"

// LoadEnv processes the CIRQ_* environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return Env{}, fmt.Errorf("failed to process environment: %w", err)
	}
	return e, nil
}

// Dir returns the config directory: the override, or <user config dir>/cirquity-wallet.
func (e Env) Dir() (string, error) {
	if e.ConfigDir != "" {
		return e.ConfigDir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "cirquity-wallet"), nil
}

// Apply puts an env daemon in front of the configured ones and marks it active.
func (e Env) Apply(cfg Config) Config {
	if e.DaemonHost == "" {
		return cfg
	}
	nodes := []DaemonNode{{Name: "Environment", Host: e.DaemonHost, Port: e.DaemonPort, SSL: e.DaemonSSL, Active: true}}
	for _, d := range cfg.Daemons {
		d.Active = false
		nodes = append(nodes, d)
	}
	cfg.Daemons = nodes
	return cfg
}
