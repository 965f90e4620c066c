package cli

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"quizdrill/internal/config"
	"quizdrill/internal/gen"
	"quizdrill/internal/quiztext"
	"quizdrill/internal/source"
)

// NewGenerateCmd produces drill documents from study material using the
// configured chat completion API.
func NewGenerateCmd(configPath *string) *cobra.Command {
	var (
		title     string
		count     int
		outPrefix string
		play      bool
		noColor   bool
	)
	cmd := &cobra.Command{
		Use:   "generate [source file...]",
		Short: "Generate drill documents from study material",
		Example: `  quizdrill generate notes.pdf --title "Immunology" --count 15
  quizdrill generate lecture.html --play`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, *configPath, args, title, count, outPrefix, play, noColor)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "quiz title")
	cmd.Flags().IntVar(&count, "count", 0, "number of questions to generate")
	cmd.Flags().StringVar(&outPrefix, "out", "quiz", "output file prefix for the generated documents")
	cmd.Flags().BoolVar(&play, "play", false, "drill the generated quiz immediately")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func runGenerate(cmd *cobra.Command, configPath string, paths []string, title string, count int, outPrefix string, play, noColor bool) error {
	ctx := cmd.Context()

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if cfg.Generator.BaseURL == "" || cfg.Generator.APIKey == "" {
		return fmt.Errorf("generator not configured: set generator.baseUrl and QUIZDRILL_GENERATOR_API_KEY")
	}

	sourceText, err := source.ReadAll(paths)
	if err != nil {
		return err
	}
	if count <= 0 {
		count = cfg.Quiz.QuestionCount
	}

	timeout := config.TTLDuration(cfg.Generator.Timeout, 60*time.Second)
	client := gen.NewClient(cfg.Generator.BaseURL, cfg.Generator.APIKey, cfg.Generator.Model, timeout)
	blob, err := client.Generate(ctx, gen.Request{Title: title, SourceText: sourceText, QuestionCount: count})
	if err != nil {
		return err
	}

	questionsText, answersText, err := quiztext.SplitParts(blob)
	if err != nil {
		return fmt.Errorf("%w: re-run to request a fresh generation", err)
	}

	questionsPath := outPrefix + "_questions.txt"
	answersPath := outPrefix + "_answers.txt"
	if err := os.WriteFile(questionsPath, []byte(questionsText+"\n"), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(answersPath, []byte(answersText+"\n"), 0o644); err != nil {
		return err
	}
	log.Printf("wrote %s and %s", questionsPath, answersPath)

	if play {
		return runPlay(cmd, []string{questionsPath}, []string{answersPath}, title, noColor)
	}
	return nil
}
