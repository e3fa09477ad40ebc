package configs

import (
	"log"
	"os"
	"path/filepath"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "SECUREHIDE_CONFIG"

type Settings struct {
	// ConfigPath is the TOML configuration file.
	ConfigPath string

	// DataPath holds state written by the CLI, currently only the audit log.
	DataPath string
}

var SecureHideSettings *Settings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	configPath := os.Getenv(ConfigPathEnvVar)
	if configPath == "" {
		configPath = filepath.Join(configDir, "securehide", "config.toml")
	}

	SecureHideSettings = &Settings{
		ConfigPath: configPath,
		DataPath:   filepath.Join(dataDir, "securehide"),
	}
}
