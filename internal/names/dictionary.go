package names

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/UnknownOlympus/labelmap/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed tradle.yaml
var tradleYAML []byte

const defaultSource = "embedded tradle.yaml"

var (
	errEmptyWorklist = errors.New("worklist is empty")
	errEmptyEntry    = errors.New("empty worklist entry")
	errDuplicate     = errors.New("duplicate worklist entry")
)

// Dictionary is the static naming configuration of a run.
type Dictionary struct {
	Worklist []string          `yaml:"worklist"` // Worklist is the ordered list of entities to label.
	Naming   map[string]string `yaml:"naming"`   // Naming maps worklist names to canonical keys.
	Labels   map[string]string `yaml:"labels"`   // Labels maps canonical keys to display text.
}

// DefaultDictionary returns the Tradle worklist compiled into the binary.
func DefaultDictionary() (*Dictionary, error) {
	return ParseDictionary(tradleYAML, defaultSource)
}

// LoadDictionary reads a dictionary YAML file. An empty path selects the default dictionary.
func LoadDictionary(path string) (*Dictionary, error) {
	if path == "" {
		return DefaultDictionary()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.ConfigError{Source: path, Err: err}
	}
	return ParseDictionary(data, path)
}

// ParseDictionary decodes and checks a dictionary document.
func ParseDictionary(data []byte, source string) (*Dictionary, error) {
	var dict Dictionary
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return nil, &models.ConfigError{Source: source, Err: fmt.Errorf("failed to decode dictionary: %w", err)}
	}
	if len(dict.Worklist) == 0 {
		return nil, &models.ConfigError{Source: source, Err: errEmptyWorklist}
	}

	seen := make(map[string]struct{}, len(dict.Worklist))
	for _, entry := range dict.Worklist {
		if entry == "" {
			return nil, &models.ConfigError{Source: source, Err: errEmptyEntry}
		}
		if _, dup := seen[entry]; dup {
			return nil, &models.ConfigError{Source: source, Key: entry, Err: errDuplicate}
		}
		seen[entry] = struct{}{}
	}

	if dict.Naming == nil {
		dict.Naming = map[string]string{}
	}
	if dict.Labels == nil {
		dict.Labels = map[string]string{}
	}
	return &dict, nil
}

// Resolver builds a Resolver from the naming and label tables.
func (d *Dictionary) Resolver() *Resolver {
	return NewResolver(d.Naming, d.Labels)
}
