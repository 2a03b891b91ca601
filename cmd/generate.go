package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/williamsnieves/ai-tech-tutor/internal/config"
	"github.com/williamsnieves/ai-tech-tutor/internal/llm"
	"github.com/williamsnieves/ai-tech-tutor/internal/output"
	"github.com/williamsnieves/ai-tech-tutor/internal/synth"
	"github.com/williamsnieves/ai-tech-tutor/internal/ui"
)

var (
	genDomain  string
	genModel   string
	genSamples int
	genFormat  string
	genOut     string
	genSchema  []string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic dataset",
	Long: `Generate synthetic records for a domain and write them to a file.

Examples:
  tutor generate --domain ecommerce --samples 50 --format csv
  tutor generate --domain health --samples 20 --format parquet --out data/patients.parquet
  tutor generate --domain business --schema company=string --schema revenue=number`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		domain, err := synth.ParseDomain(genDomain)
		if err != nil {
			return err
		}
		format, err := output.ParseFormat(genFormat)
		if err != nil {
			return err
		}
		hint, err := parseSchemaFlags(genSchema)
		if err != nil {
			return err
		}

		modelName := genModel
		if modelName == "" {
			modelName = cfg.Model
		}
		model, err := llm.ParseModel(modelName)
		if err != nil {
			return err
		}
		provider, err := llm.ForModel(cfg, model)
		if err != nil {
			return err
		}

		path := genOut
		if path == "" {
			path = filepath.Join(cfg.OutputDir, output.FileName(string(domain), format))
		}

		sp := ui.NewSpinner(fmt.Sprintf("Generating %d %s records...", genSamples, domain))
		sp.Start()

		records, err := synth.NewGenerator(provider).Generate(cmd.Context(), synth.Request{
			Domain:     domain,
			Samples:    genSamples,
			SchemaHint: hint,
			MaxTokens:  cfg.MaxTokens,
		})
		if err != nil {
			sp.Fail("Generation failed")
			return err
		}

		artifact, err := output.Write(records, format, path)
		if err != nil {
			sp.Fail("Write failed")
			return err
		}
		sp.Success(fmt.Sprintf("Wrote %d records to %s", artifact.Rows, artifact.Path))

		if records.Dropped > 0 {
			sp.Warn(fmt.Sprintf("%d malformed records dropped", records.Dropped))
		}
		return nil
	},
}

// parseSchemaFlags turns repeated field=type flags into a schema hint.
func parseSchemaFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	hint := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, typ, found := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid --schema entry %q: expected field=type", pair)
		}
		if !found {
			typ = "string"
		}
		hint[name] = strings.TrimSpace(typ)
	}
	return hint, nil
}

func init() {
	generateCmd.Flags().StringVarP(&genDomain, "domain", "d", "", "Data domain: "+strings.Join(synth.Domains(), ", "))
	generateCmd.Flags().StringVarP(&genModel, "model", "m", "", "Model to use (see 'tutor models')")
	generateCmd.Flags().IntVarP(&genSamples, "samples", "n", 10, "Number of records to generate")
	generateCmd.Flags().StringVarP(&genFormat, "format", "f", "json", "Output format: json, csv, parquet")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Output file path (default: output dir + generated name)")
	generateCmd.Flags().StringArrayVar(&genSchema, "schema", nil, "Custom field as field=type (repeatable, replaces the domain schema)")
	_ = generateCmd.MarkFlagRequired("domain")
}
