package categoryrule

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases and trims",
			input: "  UBER TRIP  ",
			want:  "uber trip",
		},
		{
			name:  "strips installment marker",
			input: "Magalu Parcela 3/12",
			want:  "magalu",
		},
		{
			name:  "strips installment marker case insensitively",
			input: "Loja PARCELA 10/10",
			want:  "loja",
		},
		{
			name:  "strips diacritics",
			input: "Pão de Açúcar",
			want:  "pao de acucar",
		},
		{
			name:  "drops punctuation keeping spaces",
			input: "Ifood *Ifood.com - SP",
			want:  "ifood ifoodcom sp",
		},
		{
			name:  "collapses whitespace runs",
			input: "Uber   \t Trip",
			want:  "uber trip",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "only punctuation",
			input: "***",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	inputs := []string{"Pão de Açúcar", "Magalu Parcela 3/12", "  UBER *Trip  "}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
