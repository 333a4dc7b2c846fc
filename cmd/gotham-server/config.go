package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AuthConfig selects how inbound requests are authorized. Mode is either
// "bearer" (Tokens maps each accepted token to the customer id it
// authorizes) or "passthrough" (PassthroughHeader names the header the
// customer id is read from directly; local/demo use only).
type AuthConfig struct {
	Mode              string            `json:"mode"`
	Tokens            map[string]string `json:"tokens,omitempty"`
	PassthroughHeader string            `json:"passthrough_header,omitempty"`
}

// ServerConfig is gotham-server's JSON configuration file shape, mirroring
// the teacher's examples/common.ClusterConfig loading convention.
type ServerConfig struct {
	ListenAddr string     `json:"listen_addr"`
	Auth       AuthConfig `json:"auth"`
}

func defaultConfig() *ServerConfig {
	return &ServerConfig{
		ListenAddr: ":8080",
		Auth:       AuthConfig{Mode: "passthrough", PassthroughHeader: "X-Customer-ID"},
	}
}

// LoadServerConfig reads and validates a server configuration JSON file.
func LoadServerConfig(path string) (*ServerConfig, error) {
	absPath, err := securePath(path)
	if err != nil {
		return nil, fmt.Errorf("secure path: %w", err)
	}
	data, err := os.ReadFile(absPath) // #nosec G304 -- absPath validated by securePath
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	cfg := defaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *ServerConfig) error {
	switch cfg.Auth.Mode {
	case "bearer":
		if len(cfg.Auth.Tokens) == 0 {
			return errors.New("auth.mode bearer requires at least one token")
		}
	case "passthrough":
	default:
		return fmt.Errorf("unknown auth.mode %q", cfg.Auth.Mode)
	}
	if cfg.ListenAddr == "" {
		return errors.New("listen_addr must not be empty")
	}
	return nil
}

// securePath mirrors the teacher's examples/common.SecurePath: it rejects
// any path that escapes the current working directory, guarding against
// path traversal in a user-supplied config flag.
func securePath(path string) (string, error) {
	clean := filepath.Clean(path)
	absPath, err := filepath.Abs(clean)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}
	base, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	rel, err := filepath.Rel(base, absPath)
	if err != nil {
		return "", fmt.Errorf("relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes working directory", path)
	}
	return absPath, nil
}
