package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewTypeRegistryDefaults(t *testing.T) {
	r, err := NewTypeRegistry(DefaultConfigs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []string{TypeNubankAccountCSV, TypeNubankCreditCardCSV} {
		if _, ok := r.ByID(id); !ok {
			t.Errorf("expected built-in type %s registered", id)
		}
	}
}

func TestNewTypeRegistryValidation(t *testing.T) {
	valid := TypeConfig{
		ID:      "VALID",
		Mapping: HeaderMapping{Date: "d", Amount: "a", Description: "t"},
	}

	tests := []struct {
		name    string
		configs []TypeConfig
	}{
		{"no configs", nil},
		{"missing id", []TypeConfig{{Mapping: HeaderMapping{Date: "d", Amount: "a", Description: "t"}}}},
		{"incomplete mapping", []TypeConfig{{ID: "X", Mapping: HeaderMapping{Date: "d"}}}},
		{"duplicate id", []TypeConfig{valid, {ID: "VALID", Mapping: HeaderMapping{Date: "x", Amount: "y", Description: "z"}}}},
		{"bad ignore pattern", []TypeConfig{{ID: "X", Mapping: HeaderMapping{Date: "d", Amount: "a", Description: "t"}, IgnoredDescriptionPatterns: []string{"("}}}},
		{"duplicate header set", []TypeConfig{valid, {ID: "OTHER", Mapping: HeaderMapping{Date: "a", Amount: "t", Description: "d"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTypeRegistry(tt.configs); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestIsIgnoredDescription(t *testing.T) {
	r, err := NewTypeRegistry(DefaultConfigs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, _ := r.ByID(TypeNubankCreditCardCSV)

	ignored := []string{"Pagamento recebido", "PAGAMENTO RECEBIDO", "Pagamento de fatura"}
	for _, d := range ignored {
		if !cfg.IsIgnoredDescription(d) {
			t.Errorf("expected %q ignored", d)
		}
	}
	if cfg.IsIgnoredDescription("Uber Trip") {
		t.Error("regular descriptions must not be ignored")
	}
}

func TestLoadTypeRegistryFromYAML(t *testing.T) {
	yaml := strings.TrimSpace(`
sourceTypes:
  - id: ACME_BANK_CSV
    mapping:
      date: Datum
      amount: Betrag
      description: Zweck
    invertAmountSignal: true
    ignoredDescriptionPatterns:
      - "(?i)internal transfer"
`)
	path := filepath.Join(t.TempDir(), "types.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	r, err := LoadTypeRegistry(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, ok := r.ByID("ACME_BANK_CSV")
	if !ok {
		t.Fatal("expected ACME_BANK_CSV registered")
	}
	if !cfg.InvertAmountSignal {
		t.Error("expected invertAmountSignal parsed")
	}
	if !cfg.IsIgnoredDescription("Internal Transfer") {
		t.Error("expected ignore pattern compiled")
	}

	if _, err := r.Detect([]string{"Datum", "Betrag", "Zweck"}); err != nil {
		t.Errorf("expected loaded type detectable: %v", err)
	}
}

func TestLoadTypeRegistryEmptyPathUsesDefaults(t *testing.T) {
	r, err := LoadTypeRegistry("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.ByID(TypeNubankAccountCSV); !ok {
		t.Error("expected defaults when no path configured")
	}
}
