package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is read when neither --config nor HARVEST_CONFIG is set.
	DefaultPath = "config.json"

	// KeyringService is the keyring service holding tokens, keyed by account id.
	KeyringService = "harvest-timer"
)

// Config holds the credential pair plus client and server settings.
type Config struct {
	Harvest struct {
		Token     string
		AccountID uint64
		BaseURL   string        // default: https://api.harvestapp.com
		Timeout   time.Duration // zero leaves the HTTP client default
	}
	Server struct {
		Addr string // e.g., 127.0.0.1:8088
	}
	// Path is the config file that was read, empty if none existed.
	Path string
}

// fileConfig is the on-disk credential file, JSON or YAML.
type fileConfig struct {
	Token     string `json:"token" yaml:"token"`
	AccountID uint64 `json:"account_id" yaml:"account_id"`
}

// Load resolves configuration from the credential file at path, then
// environment variables, then the system keyring for a still-missing token.
func Load(path string) (Config, error) {
	var cfg Config
	cfg.Harvest.BaseURL = "https://api.harvestapp.com"
	cfg.Server.Addr = "127.0.0.1:8088"

	if path == "" {
		path = os.Getenv("HARVEST_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}
	fc, err := readFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		cfg.Path = path
		cfg.Harvest.Token = fc.Token
		cfg.Harvest.AccountID = fc.AccountID
	}

	if v := os.Getenv("HARVEST_TOKEN"); v != "" {
		cfg.Harvest.Token = v
	}
	if v := os.Getenv("HARVEST_ACCOUNT_ID"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, errors.New("HARVEST_ACCOUNT_ID must be a positive integer")
		}
		cfg.Harvest.AccountID = id
	}
	if v := os.Getenv("HARVEST_BASE_URL"); v != "" {
		cfg.Harvest.BaseURL = v
	}
	if v := os.Getenv("HARVEST_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return cfg, errors.New("HARVEST_HTTP_TIMEOUT must be a duration like 30s")
		}
		cfg.Harvest.Timeout = d
	}
	if v := os.Getenv("HARVEST_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}

	if cfg.Harvest.Token == "" && cfg.Harvest.AccountID != 0 && os.Getenv("HARVEST_NO_KEYRING") == "" {
		tok, err := keyring.Get(KeyringService, strconv.FormatUint(cfg.Harvest.AccountID, 10))
		switch {
		case errors.Is(err, keyring.ErrNotFound):
		case err != nil:
			return cfg, fmt.Errorf("reading token from keyring (set HARVEST_NO_KEYRING=1 to skip): %w", err)
		default:
			cfg.Harvest.Token = tok
		}
	}

	if cfg.Harvest.Token == "" {
		return cfg, errors.New("harvest token is required (config file, HARVEST_TOKEN or keyring)")
	}
	if cfg.Harvest.AccountID == 0 {
		return cfg, errors.New("harvest account_id is required (config file or HARVEST_ACCOUNT_ID)")
	}
	return cfg, nil
}

// SaveToken stores token in the system keyring for accountID.
func SaveToken(accountID uint64, token string) error {
	if accountID == 0 || token == "" {
		return errors.New("account id and token are required")
	}
	return keyring.Set(KeyringService, strconv.FormatUint(accountID, 10), token)
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fc, fmt.Errorf("parsing %s: %w", path, err)
	}
	return fc, nil
}
