package oidc

import (
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAuthenticationType marks identities produced by this package as authenticated.
const DefaultAuthenticationType = "oidc"

// Config holds the claim types applied to every identity. It is read once
// when the factory is built.
type Config struct {
	// RoleClaimType is the claim type used for roles. Default: roles
	RoleClaimType string `yaml:"role_claim_type" json:"role_claim_type"`

	// NameClaimType is the claim type used for the display name. Default: name
	NameClaimType string `yaml:"name_claim_type" json:"name_claim_type"`

	// AuthenticationType is recorded on authenticated identities. Default: oidc
	AuthenticationType string `yaml:"authentication_type" json:"authentication_type"`
}

// DefaultConfig returns the standard claim types.
func DefaultConfig() Config {
	return Config{
		RoleClaimType:      DefaultRoleClaimType,
		NameClaimType:      DefaultNameClaimType,
		AuthenticationType: DefaultAuthenticationType,
	}
}

// Validate checks the config using ozzo-validation rules.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.RoleClaimType, validation.Required, validation.Length(1, 256)),
		validation.Field(&c.NameClaimType, validation.Required, validation.Length(1, 256)),
		validation.Field(&c.AuthenticationType, validation.Required, validation.Length(1, 128)),
	)
	if err == nil {
		return nil
	}

	clone := ErrInvalidConfig.Clone()
	clone.Source = err
	return clone.WithMetadata(map[string]any{
		"validation": err.Error(),
	})
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if strings.TrimSpace(c.RoleClaimType) == "" {
		c.RoleClaimType = def.RoleClaimType
	}
	if strings.TrimSpace(c.NameClaimType) == "" {
		c.NameClaimType = def.NameClaimType
	}
	if strings.TrimSpace(c.AuthenticationType) == "" {
		c.AuthenticationType = def.AuthenticationType
	}
	return c
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		clone := ErrInvalidConfig.Clone()
		clone.Source = err
		return Config{}, clone
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigFromEnv overlays <prefix>ROLE_CLAIM_TYPE, <prefix>NAME_CLAIM_TYPE and
// <prefix>AUTHENTICATION_TYPE on base. Files in envFiles are loaded first
// with godotenv; missing files are ignored.
func ConfigFromEnv(base Config, prefix string, envFiles ...string) Config {
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}

	if v := strings.TrimSpace(os.Getenv(prefix + "ROLE_CLAIM_TYPE")); v != "" {
		base.RoleClaimType = v
	}
	if v := strings.TrimSpace(os.Getenv(prefix + "NAME_CLAIM_TYPE")); v != "" {
		base.NameClaimType = v
	}
	if v := strings.TrimSpace(os.Getenv(prefix + "AUTHENTICATION_TYPE")); v != "" {
		base.AuthenticationType = v
	}
	return base.withDefaults()
}
