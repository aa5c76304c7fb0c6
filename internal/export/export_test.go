package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

type sampleRow struct {
	Name   string  `csv:"name"`
	Count  int     `csv:"count"`
	Score  float64 `csv:"score"`
	hidden string
}

func TestExportToWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	rows := []sampleRow{{Name: "Sunny", Count: 3, Score: 12.5}}

	if err := ExportToWriter(&buf, FormatJSON, rows, false); err != nil {
		t.Fatalf("ExportToWriter failed: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0]["Name"] != "Sunny" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestExportToWriterCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := []sampleRow{
		{Name: "Sunny", Count: 3, Score: 12.5},
		{Name: "Luna", Count: 1, Score: 0},
	}

	if err := ExportToWriter(&buf, FormatCSV, rows, false); err != nil {
		t.Fatalf("ExportToWriter failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), buf.String())
	}
	if lines[0] != "name,count,score" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Sunny,3,12.50" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "Luna,1,0.00" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestExportToWriterCSVRejectsNonSlice(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportToWriter(&buf, FormatCSV, sampleRow{}, false); err == nil {
		t.Fatal("expected error for non-slice CSV data")
	}
}

func TestExportToWriterUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportToWriter(&buf, Format("xml"), nil, false); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestGenerateFilename(t *testing.T) {
	name := GenerateFilename("yearly", FormatCSV)
	if !strings.HasPrefix(name, "yearly_") || !strings.HasSuffix(name, ".csv") {
		t.Errorf("filename = %q", name)
	}
}
