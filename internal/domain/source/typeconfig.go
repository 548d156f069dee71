package source

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Built-in source type IDs.
const (
	TypeNubankAccountCSV    = "NUBANK_ACCOUNT_CSV"
	TypeNubankCreditCardCSV = "NUBANK_CREDIT_CARD_CSV"
)

// HeaderMapping names the columns carrying the three normalized fields.
type HeaderMapping struct {
	Date        string `yaml:"date"`
	Amount      string `yaml:"amount"`
	Description string `yaml:"description"`
}

// TypeConfig describes one bank/file shape: which columns map to which
// fields, whether the amount sign is inverted (credit-card exports store
// charges as positive), and which descriptions are dropped outright.
type TypeConfig struct {
	ID                         string        `yaml:"id"`
	Mapping                    HeaderMapping `yaml:"mapping"`
	InvertAmountSignal         bool          `yaml:"invertAmountSignal"`
	IgnoredDescriptionPatterns []string      `yaml:"ignoredDescriptionPatterns"`

	ignored []*regexp.Regexp
}

// IsIgnoredDescription reports whether a row with this description is dropped
// before normalization.
func (c *TypeConfig) IsIgnoredDescription(description string) bool {
	for _, re := range c.ignored {
		if re.MatchString(description) {
			return true
		}
	}
	return false
}

// headerKey is the detection key: the config's three mapped header names,
// sorted and pipe-joined.
func (c *TypeConfig) headerKey() string {
	return headerKey([]string{c.Mapping.Date, c.Mapping.Amount, c.Mapping.Description})
}

func headerKey(headers []string) string {
	set := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		h = strings.TrimSpace(h)
		if h != "" {
			set[h] = struct{}{}
		}
	}
	keys := make([]string, 0, len(set))
	for h := range set {
		keys = append(keys, h)
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

var defaultIgnoredPatterns = []string{
	`(?i)pagamento recebido`,
	`(?i)pagamento de fatura`,
	`(?i)saldo anterior`,
}

// TypeRegistry is the closed, validated set of source-type configs. It is
// immutable after construction, so lookups need no locking.
type TypeRegistry struct {
	byID  map[string]*TypeConfig
	byKey map[string]*TypeConfig
}

// DefaultConfigs returns the built-in source types.
func DefaultConfigs() []TypeConfig {
	return []TypeConfig{
		{
			ID:                         TypeNubankAccountCSV,
			Mapping:                    HeaderMapping{Date: "Data", Amount: "Valor", Description: "Descrição"},
			InvertAmountSignal:         false,
			IgnoredDescriptionPatterns: defaultIgnoredPatterns,
		},
		{
			ID:                         TypeNubankCreditCardCSV,
			Mapping:                    HeaderMapping{Date: "date", Amount: "amount", Description: "title"},
			InvertAmountSignal:         true,
			IgnoredDescriptionPatterns: defaultIgnoredPatterns,
		},
	}
}

// NewTypeRegistry validates the given configs and builds the lookup tables.
// Every config must have an ID, all three mapped columns, compilable ignore
// patterns, and a header set distinct from every other config.
func NewTypeRegistry(configs []TypeConfig) (*TypeRegistry, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("source type registry requires at least one config")
	}

	r := &TypeRegistry{
		byID:  make(map[string]*TypeConfig, len(configs)),
		byKey: make(map[string]*TypeConfig, len(configs)),
	}

	for i := range configs {
		cfg := configs[i]
		if cfg.ID == "" {
			return nil, fmt.Errorf("source type config #%d has no id", i)
		}
		if cfg.Mapping.Date == "" || cfg.Mapping.Amount == "" || cfg.Mapping.Description == "" {
			return nil, fmt.Errorf("source type %s: mapping must name date, amount and description columns", cfg.ID)
		}
		if _, exists := r.byID[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate source type id %s", cfg.ID)
		}

		cfg.ignored = make([]*regexp.Regexp, 0, len(cfg.IgnoredDescriptionPatterns))
		for _, pattern := range cfg.IgnoredDescriptionPatterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("source type %s: invalid ignore pattern %q: %w", cfg.ID, pattern, err)
			}
			cfg.ignored = append(cfg.ignored, re)
		}

		key := cfg.headerKey()
		if other, exists := r.byKey[key]; exists {
			return nil, fmt.Errorf("source types %s and %s share header set %q", other.ID, cfg.ID, key)
		}

		r.byID[cfg.ID] = &cfg
		r.byKey[key] = &cfg
	}

	return r, nil
}

// LoadTypeRegistry builds the registry from a YAML file, or from the
// built-in configs when path is empty.
func LoadTypeRegistry(path string) (*TypeRegistry, error) {
	if path == "" {
		return NewTypeRegistry(DefaultConfigs())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source types file: %w", err)
	}

	var file struct {
		SourceTypes []TypeConfig `yaml:"sourceTypes"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse source types file: %w", err)
	}

	return NewTypeRegistry(file.SourceTypes)
}

// ByID returns the config with the given id, or false when unknown.
func (r *TypeRegistry) ByID(id string) (*TypeConfig, bool) {
	cfg, ok := r.byID[id]
	return cfg, ok
}
