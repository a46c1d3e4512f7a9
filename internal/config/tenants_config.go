package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lucifer-kj/review-app-sub002/internal/validation"
)

// TenantsConfig represents the structure of the tenants.yaml bootstrap file.
// Tenants listed here are provisioned at startup if they do not exist yet;
// existing tenants are left untouched so a published slug never changes.
type TenantsConfig struct {
	Tenants []TenantConfig `yaml:"tenants"`
}

// TenantConfig defines a tenant in the YAML bootstrap file.
type TenantConfig struct {
	Slug           string `yaml:"slug"`
	Name           string `yaml:"name"`
	DestinationURL string `yaml:"destination_url"`
	Status         string `yaml:"status,omitempty"`          // defaults to "active"
	PrimaryColor   string `yaml:"primary_color,omitempty"`   // defaults to server default
	SecondaryColor string `yaml:"secondary_color,omitempty"` // defaults to server default
	LogoURL        string `yaml:"logo_url,omitempty"`
}

// LoadTenantsConfig loads the YAML tenant bootstrap file.
// Path is determined by TENANTS_FILE env var, defaulting to "tenants.yaml".
// Returns nil without error if the file doesn't exist.
func LoadTenantsConfig() (*TenantsConfig, error) {
	path := getEnv("TENANTS_FILE", "tenants.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Bootstrap file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg TenantsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	for i := range cfg.Tenants {
		tc := &cfg.Tenants[i]
		tc.Slug = validation.NormalizeSlug(tc.Slug)
		if !validation.ValidateSlug(tc.Slug) {
			return nil, fmt.Errorf("%s: tenant %d has invalid slug %q", path, i+1, tc.Slug)
		}
		if tc.Name == "" {
			return nil, fmt.Errorf("%s: tenant %q is missing a name", path, tc.Slug)
		}
		if ok, msg := validation.ValidateURL(tc.DestinationURL); !ok {
			return nil, fmt.Errorf("%s: tenant %q destination_url: %s", path, tc.Slug, msg)
		}
		if tc.LogoURL != "" {
			if ok, msg := validation.ValidateURL(tc.LogoURL); !ok {
				return nil, fmt.Errorf("%s: tenant %q logo_url: %s", path, tc.Slug, msg)
			}
		}
		if tc.Status == "" {
			tc.Status = "active"
		}
	}

	return &cfg, nil
}
