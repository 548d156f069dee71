package source

import (
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	data := strings.Join([]string{
		"Data,Valor,Descrição",
		"15/03/2024,-32.50,Uber Trip",
		"",
		"  ,,",
		"16/03/2024,1500.00,TED Recebida",
	}, "\n")

	headers, rows, err := ParseCSV([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(headers) != 3 || headers[0] != "Data" || headers[2] != "Descrição" {
		t.Fatalf("unexpected headers: %v", headers)
	}
	if len(rows) != 2 {
		t.Fatalf("expected blank lines skipped, got %d rows", len(rows))
	}
	if rows[0]["Valor"] != "-32.50" || rows[1]["Descrição"] != "TED Recebida" {
		t.Errorf("rows not keyed by header: %+v", rows)
	}
}

func TestParseCSVStripsBOM(t *testing.T) {
	data := "\ufeffdate,title,amount\n2024-03-15,Uber,10.00\n"

	headers, _, err := ParseCSV([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if headers[0] != "date" {
		t.Errorf("expected BOM stripped from first header, got %q", headers[0])
	}
}

func TestParseCSVPadsRaggedRows(t *testing.T) {
	data := "date,title,amount\n2024-03-15,Uber\n"

	_, rows, err := ParseCSV([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected the short row kept, got %d rows", len(rows))
	}
	if rows[0]["amount"] != "" {
		t.Errorf("expected missing cell mapped to empty string, got %q", rows[0]["amount"])
	}
}

func TestParseCSVEmptyFile(t *testing.T) {
	if _, _, err := ParseCSV(nil); err != ErrEmptyFile {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}
