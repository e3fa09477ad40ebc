package configs

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/securehide/internal/stego"

	"github.com/hashicorp/go-multierror"
)

type Config struct {
	KDF    KDFConfig    `toml:"kdf"`
	Policy PolicyConfig `toml:"policy"`
	Server ServerConfig `toml:"server"`
}

// KDFConfig sets the Argon2id cost for newly hidden messages. Extraction
// always uses the parameters stored in the image.
type KDFConfig struct {
	Time      uint32 `toml:"time"`
	MemoryKiB uint32 `toml:"memory_kib"`
	Threads   uint8  `toml:"threads"`
}

type PolicyConfig struct {
	MinPasswordLength int `toml:"min_password_length"`
	MaxImagePixels    int `toml:"max_image_pixels"`
}

type ServerConfig struct {
	Listen                string   `toml:"listen"`
	MaxConcurrent         int      `toml:"max_concurrent"`
	RequestTimeoutSeconds int      `toml:"request_timeout_seconds"`
	MaxUploadBytes        int64    `toml:"max_upload_bytes"`
	AllowedOrigins        []string `toml:"allowed_origins"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	kdf := stego.DefaultKDFParams()
	return &Config{
		KDF: KDFConfig{
			Time:      kdf.Time,
			MemoryKiB: kdf.MemoryKiB,
			Threads:   kdf.Threads,
		},
		Policy: PolicyConfig{
			MinPasswordLength: stego.DefaultMinPasswordLength,
			MaxImagePixels:    50_000_000,
		},
		Server: ServerConfig{
			Listen:                ":8080",
			MaxConcurrent:         4,
			RequestTimeoutSeconds: 30,
			MaxUploadBytes:        32 << 20,
			AllowedOrigins:        []string{"http://localhost:3000", "http://localhost:5173"},
		},
	}
}

// Load reads the config file from SecureHideSettings.ConfigPath.
func Load() (*Config, error) {
	return LoadFrom(SecureHideSettings.ConfigPath)
}

// LoadFrom reads and validates the config at path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if _, err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// Save writes config to path.
func Save(path string, config *Config) error {
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := c.KDFParams().Validate(); err != nil {
		result = multierror.Append(result, fmt.Errorf("kdf: %w", err))
	}
	if c.Policy.MinPasswordLength < stego.DefaultMinPasswordLength {
		result = multierror.Append(result, fmt.Errorf("policy.min_password_length must be at least %d", stego.DefaultMinPasswordLength))
	}
	if c.Policy.MaxImagePixels < 0 {
		result = multierror.Append(result, fmt.Errorf("policy.max_image_pixels cannot be negative"))
	}
	if c.Server.Listen == "" {
		result = multierror.Append(result, fmt.Errorf("server.listen is required"))
	}
	if c.Server.MaxConcurrent < 1 {
		result = multierror.Append(result, fmt.Errorf("server.max_concurrent must be at least 1"))
	}
	if c.Server.RequestTimeoutSeconds < 1 {
		result = multierror.Append(result, fmt.Errorf("server.request_timeout_seconds must be at least 1"))
	}
	if c.Server.MaxUploadBytes < 1 {
		result = multierror.Append(result, fmt.Errorf("server.max_upload_bytes must be positive"))
	}

	return result.ErrorOrNil()
}

// KDFParams converts the kdf section for the stego package.
func (c *Config) KDFParams() stego.KDFParams {
	return stego.KDFParams{
		Time:      c.KDF.Time,
		MemoryKiB: c.KDF.MemoryKiB,
		Threads:   c.KDF.Threads,
	}
}

// StegoOptions returns the options Hide should run with.
func (c *Config) StegoOptions() stego.Options {
	return stego.Options{
		KDF:               c.KDFParams(),
		MinPasswordLength: c.Policy.MinPasswordLength,
	}
}
