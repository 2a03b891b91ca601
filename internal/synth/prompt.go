// Package synth implements the synthetic-data pipeline: build a
// generation prompt for a domain, invoke a model provider, and parse
// the structured reply into records.
package synth

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain selects the kind of tabular data to generate.
type Domain string

const (
	DomainBusiness  Domain = "business"
	DomainHealth    Domain = "health"
	DomainEcommerce Domain = "ecommerce"
	DomainNLP       Domain = "nlp"
)

// ErrUnsupportedDomain is a configuration error: the requested domain
// has no schema.
var ErrUnsupportedDomain = errors.New("unsupported domain")

// Schema describes the fields every generated record must carry, in order.
type Schema struct {
	Fields []string
	Types  map[string]string
}

type domainSpec struct {
	schema  Schema
	example string
}

var domains = map[Domain]domainSpec{
	DomainBusiness: {
		schema: Schema{
			Fields: []string{"company_id", "name", "industry", "revenue", "employees", "location", "founded_year"},
			Types: map[string]string{
				"company_id": "string", "name": "string", "industry": "string",
				"revenue": "float", "employees": "integer", "location": "string",
				"founded_year": "integer",
			},
		},
		example: `[
    {"company_id": "COMP001", "name": "TechCorp Solutions", "industry": "Technology", "revenue": 1500000.00, "employees": 50, "location": "San Francisco, CA", "founded_year": 2015},
    {"company_id": "COMP002", "name": "GreenEnergy Systems", "industry": "Renewable Energy", "revenue": 2500000.00, "employees": 75, "location": "Austin, TX", "founded_year": 2018}
]`,
	},
	DomainHealth: {
		schema: Schema{
			Fields: []string{"patient_id", "age", "gender", "diagnosis", "treatment", "admission_date", "discharge_date"},
			Types: map[string]string{
				"patient_id": "string", "age": "integer", "gender": "string",
				"diagnosis": "string", "treatment": "string",
				"admission_date": "string", "discharge_date": "string",
			},
		},
		example: `[
    {"patient_id": "PAT001", "age": 45, "gender": "Female", "diagnosis": "Hypertension", "treatment": "Lisinopril 10mg daily", "admission_date": "2023-05-15", "discharge_date": "2023-05-17"},
    {"patient_id": "PAT002", "age": 32, "gender": "Male", "diagnosis": "Type 2 Diabetes", "treatment": "Metformin 500mg twice daily", "admission_date": "2023-06-01", "discharge_date": "2023-06-03"}
]`,
	},
	DomainEcommerce: {
		schema: Schema{
			Fields: []string{"order_id", "customer_id", "product", "quantity", "price", "order_date", "shipping_address"},
			Types: map[string]string{
				"order_id": "string", "customer_id": "string", "product": "string",
				"quantity": "integer", "price": "float", "order_date": "string",
				"shipping_address": "string",
			},
		},
		example: `[
    {"order_id": "ORD001", "customer_id": "CUST001", "product": "Wireless Headphones", "quantity": 1, "price": 99.99, "order_date": "2023-07-15", "shipping_address": "123 Main St, New York, NY 10001"},
    {"order_id": "ORD002", "customer_id": "CUST002", "product": "Smart Watch", "quantity": 2, "price": 199.99, "order_date": "2023-07-16", "shipping_address": "456 Oak Ave, Los Angeles, CA 90001"}
]`,
	},
	DomainNLP: {
		schema: Schema{
			Fields: []string{"text", "label", "language", "word_count"},
			Types: map[string]string{
				"text": "string", "label": "string", "language": "string",
				"word_count": "integer",
			},
		},
		example: `[
    {"text": "The battery life on this laptop is outstanding.", "label": "positive", "language": "en", "word_count": 8},
    {"text": "Customer support never answered my ticket.", "label": "negative", "language": "en", "word_count": 6}
]`,
	},
}

// ParseDomain validates a user-supplied domain name. "e-commerce" is
// accepted as an alias for ecommerce.
func ParseDomain(s string) (Domain, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "-", "")
	d := Domain(name)
	if _, ok := domains[d]; !ok {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedDomain, s, strings.Join(Domains(), ", "))
	}
	return d, nil
}

// Domains lists the supported domain names, sorted.
func Domains() []string {
	names := make([]string, 0, len(domains))
	for d := range domains {
		names = append(names, string(d))
	}
	sort.Strings(names)
	return names
}

// SchemaFor returns the field list for a domain. A non-empty hint
// replaces the built-in schema entirely; hint fields are sorted so the
// resulting prompt is deterministic.
func SchemaFor(domain Domain, hint map[string]string) (Schema, error) {
	spec, ok := domains[domain]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnsupportedDomain, domain)
	}
	if len(hint) == 0 {
		return spec.schema, nil
	}

	fields := make([]string, 0, len(hint))
	types := make(map[string]string, len(hint))
	for field, typ := range hint {
		fields = append(fields, field)
		if typ == "" {
			typ = "string"
		}
		types[field] = typ
	}
	sort.Strings(fields)
	return Schema{Fields: fields, Types: types}, nil
}

// BuildPrompt renders the generation instruction for a domain. Same
// inputs always produce the same prompt string.
func BuildPrompt(domain Domain, n int, hint map[string]string) (string, error) {
	spec, ok := domains[domain]
	if !ok {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedDomain, domain, strings.Join(Domains(), ", "))
	}
	if n <= 0 {
		return "", fmt.Errorf("sample count must be positive, got %d", n)
	}

	schema, err := SchemaFor(domain, hint)
	if err != nil {
		return "", err
	}

	var schemaBlock strings.Builder
	schemaBlock.WriteString("{\n")
	for i, field := range schema.Fields {
		schemaBlock.WriteString(fmt.Sprintf("    %q: %q", field, schema.Types[field]))
		if i < len(schema.Fields)-1 {
			schemaBlock.WriteString(",")
		}
		schemaBlock.WriteString("\n")
	}
	schemaBlock.WriteString("}")

	var b strings.Builder
	fmt.Fprintf(&b, "Generate EXACTLY %d synthetic %s records in JSON format.\n", n, domain)
	fmt.Fprintf(&b, "Each record should be realistic and follow this schema:\n%s\n\n", schemaBlock.String())
	b.WriteString("IMPORTANT:\n")
	fmt.Fprintf(&b, "1. You MUST generate EXACTLY %d records\n", n)
	fmt.Fprintf(&b, "2. Return ONLY a JSON array containing exactly %d objects\n", n)
	b.WriteString("3. Do not include any additional text, markdown, or formatting\n")
	b.WriteString("4. Each object in the array must follow the schema exactly\n")
	fmt.Fprintf(&b, "5. Generate realistic data that matches the %s domain\n", domain)
	b.WriteString("6. Each record should be unique and different from the others\n")

	// Only the built-in schemas ship an example block; a custom hint
	// has no example to show.
	if len(hint) == 0 {
		fmt.Fprintf(&b, "\nHere is an example of the expected format with realistic %s data:\n%s\n", domain, spec.example)
	}
	fmt.Fprintf(&b, "\nNow generate %d new, unique records following the same format but with different realistic data.", n)

	return b.String(), nil
}
