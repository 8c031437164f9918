package cmd

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type HubConfig struct {
	Listen           string
	Network          [20]byte
	Registry         string
	AnnounceInterval time.Duration
	Console          bool
}

func DefaultHubConfig() HubConfig {
	return HubConfig{
		Listen:           "0.0.0.0:4000",
		AnnounceInterval: 60 * time.Second,
	}
}

type hubFileConfig struct {
	Listen           string `toml:"listen"`
	Network          string `toml:"network"`
	Registry         string `toml:"registry"`
	AnnounceInterval string `toml:"announce_interval"`
	Console          bool   `toml:"console"`
}

func loadHubConfig(path string) (HubConfig, error) {
	cfg := DefaultHubConfig()

	var raw hubFileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return HubConfig{}, fmt.Errorf("load hub config: %w", err)
	}

	if meta.IsDefined("listen") {
		listen := strings.TrimSpace(raw.Listen)
		if listen != "" {
			cfg.Listen = listen
		}
	}

	if meta.IsDefined("network") {
		cfg.Network = networkID(raw.Network)
	}

	if meta.IsDefined("registry") {
		cfg.Registry = strings.TrimSpace(raw.Registry)
	}

	if meta.IsDefined("announce_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.AnnounceInterval))
		if err != nil {
			return HubConfig{}, fmt.Errorf("parse announce_interval: %w", err)
		}
		cfg.AnnounceInterval = d
	}

	if meta.IsDefined("console") {
		cfg.Console = raw.Console
	}

	return cfg, nil
}

type RegistryConfig struct {
	Listen        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		Listen: "0.0.0.0:8080",
	}
}

type registryFileConfig struct {
	Listen        string `toml:"listen"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

func loadRegistryConfig(path string) (RegistryConfig, error) {
	cfg := DefaultRegistryConfig()

	var raw registryFileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return RegistryConfig{}, fmt.Errorf("load registry config: %w", err)
	}

	if meta.IsDefined("listen") {
		listen := strings.TrimSpace(raw.Listen)
		if listen != "" {
			cfg.Listen = listen
		}
	}

	if meta.IsDefined("redis_addr") {
		cfg.RedisAddr = strings.TrimSpace(raw.RedisAddr)
	}

	if meta.IsDefined("redis_password") {
		cfg.RedisPassword = raw.RedisPassword
	}

	if meta.IsDefined("redis_db") {
		cfg.RedisDB = raw.RedisDB
	}

	return cfg, nil
}

// networkID turns a user-supplied network name into the 20-byte id.
// A 40-char hex string is used verbatim; anything else is hashed.
func networkID(s string) [20]byte {
	s = strings.TrimSpace(s)
	if len(s) == 40 {
		if decoded, err := hex.DecodeString(s); err == nil {
			var id [20]byte
			copy(id[:], decoded)
			return id
		}
	}
	return sha1.Sum([]byte(s))
}
