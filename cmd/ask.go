package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/williamsnieves/ai-tech-tutor/internal/config"
	"github.com/williamsnieves/ai-tech-tutor/internal/history"
	"github.com/williamsnieves/ai-tech-tutor/internal/llm"
	"github.com/williamsnieves/ai-tech-tutor/internal/tutor"
	"github.com/williamsnieves/ai-tech-tutor/internal/ui"
)

var (
	askCode     bool
	askLanguage string
	askModel    string
	askLang     string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a technology question or have code explained",
	Long: `Ask a technology or programming question. With --code the input is
treated as a code snippet to explain line by line.

The question can be passed as arguments or piped on stdin:

  tutor ask "what is a mutex?"
  tutor ask --code --language go "ch := make(chan int, 3)"
  cat main.py | tutor ask --code --language python
  tutor ask --lang spanish "explain REST APIs"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		query, err := readQuery(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		modelName := askModel
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
		t := tutor.New(provider, cfg.MaxTokens)

		language := askLanguage
		if askCode && language == "" {
			language = tutor.DefaultLanguage
		}

		sp := ui.NewSpinner("Thinking...")
		sp.Start()

		answer, err := t.Explain(cmd.Context(), query, askCode, language)
		if err == nil && askLang != "" {
			answer, err = t.Translate(cmd.Context(), answer, askLang)
		}
		sp.Stop()

		saveErr := history.Save(history.Entry{
			Timestamp: time.Now(),
			Query:     query,
			Model:     string(model),
			IsCode:    askCode,
			Language:  askLanguage,
			Answer:    answer,
			Success:   err == nil,
		})
		if saveErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save history: %v\n", saveErr)
		}

		if err != nil {
			return err
		}

		fmt.Print(ui.RenderMarkdown(answer))
		return nil
	},
}

// readQuery takes the question from args, or from stdin when none are
// given (so snippets can be piped in).
func readQuery(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	query := strings.TrimSpace(string(data))
	if query == "" {
		return "", fmt.Errorf("no question given: pass it as arguments or pipe it on stdin")
	}
	return query, nil
}

func init() {
	askCmd.Flags().BoolVar(&askCode, "code", false, "Treat the input as a code snippet to explain")
	askCmd.Flags().StringVar(&askLanguage, "language", "", "Programming language of the snippet (with --code)")
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "Model to use (see 'tutor models')")
	askCmd.Flags().StringVar(&askLang, "lang", "", "Translate the answer to this language (e.g. spanish)")
}
