package config

import (
	"vaultpnl/pkg/confkit"
	"vaultpnl/pkg/source"
)

// DefaultPath is the main config file relative to the project root.
const DefaultPath = "etc/vaultpnl.yaml"

// MustLoadDefault loads etc/vaultpnl.yaml from the project root and panics on error.
func MustLoadDefault() *Config {
	return MustLoad(confkit.ProjectPath(DefaultPath))
}

// MustLoadSource loads etc/source.yaml on its own, for tests that only need providers.
func MustLoadSource() *source.Config {
	cfg, err := source.LoadConfig(confkit.ProjectPath("etc/" + defaultSourceFile))
	if err != nil {
		panic(err)
	}
	return cfg
}
