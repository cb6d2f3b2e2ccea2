package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/WangWilly/xJuxt/pkgs/commonpkg/database"
	"github.com/WangWilly/xJuxt/pkgs/logger"
	"github.com/WangWilly/xJuxt/pkgs/serverpkg/helpers/authhelper"
	"github.com/WangWilly/xJuxt/pkgs/serverpkg/helpers/dirhelper"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const ENV_PREFIX = "XJUXT_"

////////////////////////////////////////////////////////////////////////////////
// Configuration Structures
////////////////////////////////////////////////////////////////////////////////

type ServerConfig struct {
	Port         string `yaml:"port" env:"PORT"`
	Debug        bool   `yaml:"debug" env:"DEBUG"`
	WebfilesRoot string `yaml:"webfiles_root" env:"WEBFILES_ROOT"`
	RootRedirect string `yaml:"root_redirect" env:"ROOT_REDIRECT"`
}

type OEmbedConfig struct {
	AuthorBaseUrl string `yaml:"author_base_url" env:"AUTHOR_BASE_URL"`
}

// Config represents the main application configuration
type Config struct {
	Server      ServerConfig            `yaml:"server" envPrefix:"SERVER_"`
	Log         logger.LogConfig        `yaml:"log" envPrefix:"LOG_"`
	Database    database.DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
	Auth        authhelper.Config       `yaml:"auth" envPrefix:"AUTH_"`
	Directories dirhelper.Config        `yaml:"directories"`
	OEmbed      OEmbedConfig            `yaml:"oembed" envPrefix:"OEMBED_"`
}

// Default returns a config that runs against a local sqlite file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			WebfilesRoot: "webfiles",
			RootRedirect: "/titles/show",
		},
		Log: logger.LogConfig{
			Path: filepath.Join("data", "xjuxt.log"),
		},
		Database: database.DatabaseConfig{
			Type: database.DATABASE_TYPE_SQLITE,
			Path: filepath.Join("data", "xjuxt.db"),
		},
		Auth: authhelper.Config{
			CookieName: "access_token",
		},
		Directories: dirhelper.Config{
			Default: dirhelper.DEFAULT_DIRECTORY,
			Hosts: map[string]string{
				"portal": "portal",
				"ctr":    "ctr",
			},
		},
		OEmbed: OEmbedConfig{
			AuthorBaseUrl: "https://juxt.pretendo.network/users/show?pid=",
		},
	}
}

////////////////////////////////////////////////////////////////////////////////
// Configuration Management Functions
////////////////////////////////////////////////////////////////////////////////

// ReadConfig reads the YAML file at path on top of Default and then applies
// XJUXT_* environment overrides.
func ReadConfig(path string) (*Config, error) {
	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	result := Default()
	if err := yaml.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := ApplyEnv(result); err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyEnv overrides conf with any XJUXT_* variables that are set.
func ApplyEnv(conf *Config) error {
	if err := env.ParseWithOptions(conf, env.Options{Prefix: ENV_PREFIX}); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}

// WriteConfig writes configuration to the specified path
func WriteConfig(path string, conf *Config) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(path, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := yaml.Marshal(conf)
	if err != nil {
		return err
	}
	_, err = io.Copy(file, bytes.NewReader(data))
	return err
}
