package cmd

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/erbsland-dev/erbsland-conf-go/source"
)

// Config is the CLI's own small YAML configuration, read the same way
// the teacher's cli/cmd/config.go reads sqlcode.yaml: access-policy
// defaults and feature toggles that would otherwise have to be repeated
// on every invocation.
type Config struct {
	// AllowAnyDirectory relaxes the default include access policy
	// (SameDirectory|Subdirectories) to AnyDirectory.
	AllowAnyDirectory bool `yaml:"allow_any_directory"`

	// RequireSuffix, if set, restricts `@include` targets to this file
	// suffix. If it and the --suffix flag are both empty, no suffix is
	// required.
	RequireSuffix string `yaml:"require_suffix"`

	// KnownFeatures lists the `@features` tokens this build accepts.
	// An empty list means "accept anything" (conf.Options' default).
	KnownFeatures []string `yaml:"known_features"`

	// SignPassphrase, if set, is the shared secret the CLI's default
	// HMAC-SHA256 signer/validator uses for `sign`/`validate`.
	SignPassphrase string `yaml:"sign_passphrase"`
}

// LoadConfig reads the config file at configPath. A missing file is not
// an error — it yields the zero-value Config, a permissive default.
func LoadConfig() (Config, error) {
	var cfg Config
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AccessPolicy builds the source.AccessPolicy this config describes.
func (c Config) AccessPolicy() source.AccessPolicy {
	policy := source.DefaultAccessPolicy()
	if c.AllowAnyDirectory {
		policy.Flags = source.AnyDirectory
	}
	reqSuffix := c.RequireSuffix
	if suffix != "" {
		reqSuffix = suffix
	}
	if reqSuffix != "" {
		policy.Flags |= source.RequireSuffix
		policy.Suffix = reqSuffix
	}
	return policy
}
