package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// FileName is the config file inside the config directory.
const FileName = "config.json"

// Config represents the application configuration. It is a flat document
// and is always written out whole.
type Config struct {
	DarkMode                 bool         `json:"darkmode"`
	AutoLockEnabled          bool         `json:"autoLockEnabled"`
	AutoLockInterval         float64      `json:"autoLockInterval"`
	Logger                   bool         `json:"logger"`
	WalletFile               string       `json:"walletFile"`
	ScanCoinbaseTransactions bool         `json:"scanCoinbaseTransactions"`
	DisplayCurrency          string       `json:"displayCurrency"`
	CheckForUpdates          bool         `json:"checkForUpdates"`
	LastVersionCheck         time.Time    `json:"lastVersionCheck"`
	Daemons                  []DaemonNode `json:"daemons"`
}

// DaemonNode is a daemon endpoint the wallet can sync against.
type DaemonNode struct {
	Name   string `json:"name"`
	Host   string `json:"host"`
	Port   int    `json:"port"`
	SSL    bool   `json:"ssl"`
	Active bool   `json:"active"`
}

// Address returns host:port.
func (d DaemonNode) Address() string {
	return d.Host + ":" + strconv.Itoa(d.Port)
}

// ActiveDaemon returns the node marked active, or the first node.
func (c Config) ActiveDaemon() (DaemonNode, bool) {
	for _, d := range c.Daemons {
		if d.Active {
			return d, true
		}
	}
	if len(c.Daemons) > 0 {
		return c.Daemons[0], true
	}
	return DaemonNode{}, false
}

// Load reads the config from the specified path
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Rename(tmp, path)
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		DarkMode:         true,
		AutoLockEnabled:  true,
		AutoLockInterval: 15,
		DisplayCurrency:  "coin",
		CheckForUpdates:  true,
		Daemons: []DaemonNode{
			{
				Name:   "Cirquity public node",
				Host:   "api-block.cirquity.com",
				Port:   443,
				SSL:    true,
				Active: true,
			},
			{
				Name: "Local daemon",
				Host: "127.0.0.1",
				Port: DefaultDaemonPort,
			},
		},
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found.
// An unreadable file is replaced by the defaults in memory only, so a typo
// in a hand-edited config is not overwritten before the user sees it.
func LoadOrCreate(path string) (Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
		return cfg, Save(path, cfg)
	}
	return DefaultConfig(), err
}

// Coin constants.
const (
	CoinName             = "Cirquity"
	Ticker               = "CIRQ"
	DecimalPlaces        = 2
	DefaultDaemonPort    = 18128
	ExplorerBaseURL      = "https://explorer.cirquity.com/transaction.html?hash="
	NodeListURL          = "https://raw.githubusercontent.com/cirquity/cirquity-node-list/master/cirquity-nodes.json"
	RepoLink             = "https://github.com/cirquity/cirquity-wallet"
	UpdateURL            = RepoLink + "/releases/latest"
	DaemonUpdateInterval = 10 * time.Second
)
