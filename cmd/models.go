package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/williamsnieves/ai-tech-tutor/internal/config"
	"github.com/williamsnieves/ai-tech-tutor/internal/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the available models",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		cyan := color.New(color.FgCyan, color.Bold)
		dim := color.New(color.FgHiBlack)

		for _, name := range llm.Models() {
			model, _ := llm.ParseModel(name)
			marker := "  "
			if name == cfg.Model {
				marker = "* "
			}
			fmt.Print(marker)
			cyan.Printf("%-8s", name)
			dim.Printf(" %s (%s)\n", model.ID(), model.ProviderName())
		}
		return nil
	},
}
