// Package criteriafile persists named criteria groups as a YAML document.
// The file is read once per run and fully rewritten on mutation.
package criteriafile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/greenbase-cli/greenbase/schema"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the criteria file looked up in $HOME.
const DefaultFileName = ".greenbase-criteria.yml"

// DefaultPath returns the default criteria file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(home, DefaultFileName)
}

// Load reads the criteria configuration at path. A missing file yields an
// empty configuration, not an error.
func Load(path string) (*schema.CriteriaConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &schema.CriteriaConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading criteria file: %w", err)
	}

	var cfg schema.CriteriaConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing criteria file %q: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the full configuration to path, replacing any previous
// contents. Callers validate before saving so a failed validation never
// touches the file.
func Save(path string, cfg *schema.CriteriaConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding criteria file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing criteria file %q: %w", path, err)
	}
	return nil
}
