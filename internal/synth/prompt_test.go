package synth

import (
	"errors"
	"strings"
	"testing"
)

func TestParseDomain(t *testing.T) {
	tests := []struct {
		in      string
		want    Domain
		wantErr bool
	}{
		{"business", DomainBusiness, false},
		{"health", DomainHealth, false},
		{"ecommerce", DomainEcommerce, false},
		{"e-commerce", DomainEcommerce, false},
		{"NLP", DomainNLP, false},
		{"  Business ", DomainBusiness, false},
		{"finance", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDomain(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedDomain) {
				t.Errorf("ParseDomain(%q): expected ErrUnsupportedDomain, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDomain(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	for _, name := range Domains() {
		domain := Domain(name)
		a, err := BuildPrompt(domain, 5, nil)
		if err != nil {
			t.Fatalf("BuildPrompt(%s): %v", domain, err)
		}
		b, err := BuildPrompt(domain, 5, nil)
		if err != nil {
			t.Fatalf("BuildPrompt(%s): %v", domain, err)
		}
		if a != b {
			t.Errorf("%s: prompt not deterministic", domain)
		}
	}
}

func TestBuildPrompt_NamesCountAndFields(t *testing.T) {
	prompt, err := BuildPrompt(DomainHealth, 7, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(prompt, "EXACTLY 7") {
		t.Error("prompt should name the requested count")
	}
	if !strings.Contains(prompt, "health") {
		t.Error("prompt should name the domain")
	}
	for _, field := range []string{"patient_id", "diagnosis", "admission_date"} {
		if !strings.Contains(prompt, field) {
			t.Errorf("prompt missing schema field %q", field)
		}
	}
	// The built-in domains include an example block.
	if !strings.Contains(prompt, "PAT001") {
		t.Error("prompt should include the example block")
	}
}

func TestBuildPrompt_UnsupportedDomain(t *testing.T) {
	_, err := BuildPrompt(Domain("finance"), 5, nil)
	if !errors.Is(err, ErrUnsupportedDomain) {
		t.Errorf("expected ErrUnsupportedDomain, got: %v", err)
	}
}

func TestBuildPrompt_NonPositiveCount(t *testing.T) {
	for _, n := range []int{0, -3} {
		if _, err := BuildPrompt(DomainBusiness, n, nil); err == nil {
			t.Errorf("expected error for n=%d", n)
		}
	}
}

func TestBuildPrompt_SchemaHint(t *testing.T) {
	hint := map[string]string{"zip": "string", "age": "integer", "name": ""}

	prompt, err := BuildPrompt(DomainBusiness, 3, hint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Hint replaces the built-in schema.
	if strings.Contains(prompt, "company_id") {
		t.Error("hint should replace the built-in schema")
	}
	// Hint fields appear sorted, so the prompt is deterministic.
	ageIdx := strings.Index(prompt, `"age"`)
	nameIdx := strings.Index(prompt, `"name"`)
	zipIdx := strings.Index(prompt, `"zip"`)
	if ageIdx == -1 || nameIdx == -1 || zipIdx == -1 {
		t.Fatal("hint fields missing from prompt")
	}
	if !(ageIdx < nameIdx && nameIdx < zipIdx) {
		t.Error("hint fields should be sorted")
	}
	// Empty type hint defaults to string.
	if !strings.Contains(prompt, `"name": "string"`) {
		t.Error("empty type hint should default to string")
	}
}

func TestSchemaFor_BuiltInOrder(t *testing.T) {
	schema, err := SchemaFor(DomainEcommerce, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"order_id", "customer_id", "product", "quantity", "price", "order_date", "shipping_address"}
	if len(schema.Fields) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(schema.Fields))
	}
	for i, field := range want {
		if schema.Fields[i] != field {
			t.Errorf("field %d = %q, want %q", i, schema.Fields[i], field)
		}
	}
}
