package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/shellpack/pkg/errors"
)

type testPackage struct {
	ProductName string `json:"productName" yaml:"productName"`
	Version     string `json:"version" yaml:"version"`
}

type testPort struct{ random bool }

func (p testPort) String() string {
	if p.random {
		return "random"
	}
	return "0"
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	data := testPackage{ProductName: "Demo", Version: "1.0.0"}
	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result testPackage
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if result != data {
		t.Errorf("Unexpected data: %+v", result)
	}
	if !strings.Contains(buf.String(), "\n  \"productName\"") {
		t.Errorf("Expected two-space indentation, got:\n%s", buf.String())
	}
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	data := map[string]testPackage{"package": {ProductName: "Demo", Version: "1.0.0"}}
	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result map[string]testPackage
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}
	if result["package"].ProductName != "Demo" {
		t.Errorf("Unexpected data: %+v", result)
	}
	if !strings.Contains(buf.String(), "\n  productName: Demo") {
		t.Errorf("Expected two-space indentation, got:\n%s", buf.String())
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	data := []testPackage{
		{ProductName: "Demo", Version: "1.0.0"},
		{ProductName: "Other", Version: "2.0.0"},
	}
	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "FIELD") || !strings.Contains(output, "VALUE") {
		t.Error("Expected table header not found")
	}
	if !strings.Contains(output, "[0].ProductName") || !strings.Contains(output, "[1].Version") {
		t.Errorf("Expected flattened keys not found:\n%s", output)
	}
}

func TestWriter_SerializeTable_SortedKeys(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	data := map[string]int{"zeta": 1, "alpha": 2, "mid": 3}
	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	output := buf.String()
	a, m, z := strings.Index(output, "alpha"), strings.Index(output, "mid"), strings.Index(output, "zeta")
	if a < 0 || a > m || m > z {
		t.Errorf("Expected keys sorted alphabetically:\n%s", output)
	}
}

func TestWriter_SerializeTable_NestedStructs(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	type bundle struct {
		Active bool
		Port   testPort
	}
	type app struct {
		Bundle bundle
	}

	data := app{Bundle: bundle{Active: true, Port: testPort{random: true}}}
	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Bundle.Active") {
		t.Error("Expected flattened key 'Bundle.Active' not found")
	}
	if !strings.Contains(output, "Bundle.Port") || !strings.Contains(output, "random") {
		t.Errorf("Expected Stringer value rendered as a leaf:\n%s", output)
	}
}

func TestWriter_SerializeTable_EmptyData(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), []testPackage{}); err != nil {
		t.Fatalf("Serialize empty slice failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<empty>") {
		t.Errorf("Expected '<empty>' in output for empty data, got: %s", buf.String())
	}
}

func TestWriter_SerializeTable_NilValues(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	type withNil struct {
		Name  string
		Value *int
	}

	if err := writer.Serialize(context.Background(), withNil{Name: "test"}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Value") || !strings.Contains(buf.String(), "<nil>") {
		t.Errorf("Expected nil field in output:\n%s", buf.String())
	}
}

func TestWriter_UnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter("invalid", &buf)

	data := testPackage{ProductName: "Demo"}
	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize should fall back to JSON: %v", err)
	}

	var result testPackage
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal as JSON: %v", err)
	}
}

func TestWriter_CanceledContext(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewWriter(FormatJSON, &buf).Serialize(ctx, testPackage{}); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestNewWriter_DefaultsToStdout(t *testing.T) {
	if w := NewWriter(FormatJSON, nil); w.output == nil {
		t.Error("Expected stdout output when nil is passed")
	}
}

func TestFormat_IsUnknown(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{FormatJSON, false},
		{FormatYAML, false},
		{FormatTable, false},
		{"xml", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if got := tt.format.IsUnknown(); got != tt.want {
				t.Errorf("IsUnknown() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "json", input: "json", want: FormatJSON},
		{name: "upper yaml", input: "YAML", want: FormatYAML},
		{name: "padded table", input: " table ", want: FormatTable},
		{name: "xml", input: "xml", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.IsCode(err, errors.ErrCodeInvalidRequest) {
					t.Errorf("expected INVALID_REQUEST, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSupportedFormats(t *testing.T) {
	got := SupportedFormats()
	if len(got) != 3 {
		t.Fatalf("expected 3 formats, got %v", got)
	}
	for _, f := range got {
		if Format(f).IsUnknown() {
			t.Errorf("supported format %q reported unknown", f)
		}
	}
}
