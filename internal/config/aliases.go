package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/merchant"
	"gopkg.in/yaml.v3"
)

type aliasFile struct {
	Aliases []merchant.Alias `yaml:"aliases"`
}

// LoadAliases reads merchant aliases from a YAML file of the form:
//
//	aliases:
//	  - key: ZMT
//	    name: ZOMATO
//
// An empty path yields no aliases. A missing file is an error.
func LoadAliases(path string) ([]merchant.Alias, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 - path comes from user configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: aliases file %s", common.ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read aliases file: %w", err)
	}

	var file aliasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: failed to parse aliases file %s: %w", common.ErrInvalidConfig, path, err)
	}

	aliases := make([]merchant.Alias, 0, len(file.Aliases))
	for i, a := range file.Aliases {
		key := strings.TrimSpace(a.Key)
		name := strings.TrimSpace(a.Name)
		if key == "" || name == "" {
			return nil, fmt.Errorf("%w: alias %d needs both key and name", common.ErrInvalidConfig, i+1)
		}
		aliases = append(aliases, merchant.Alias{Key: key, Name: name})
	}
	return aliases, nil
}
