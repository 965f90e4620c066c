package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"quizdrill/internal/app"
	"quizdrill/internal/infra/memory"
	"quizdrill/internal/source"
	"quizdrill/internal/tui"
)

// NewPlayCmd drills question and answer documents from local files.
func NewPlayCmd() *cobra.Command {
	var (
		questionFiles []string
		answerFiles   []string
		title         string
		noColor       bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Drill questions from local documents",
		Example: `  quizdrill play -q chapter1.txt -a chapter1_answers.txt
  quizdrill play -q part1.pdf -q part2.pdf -a answers.pdf --title "Biology"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(questionFiles) == 0 || len(answerFiles) == 0 {
				return fmt.Errorf("both --questions and --answers are required")
			}
			return runPlay(cmd, questionFiles, answerFiles, title, noColor)
		},
	}
	cmd.Flags().StringSliceVarP(&questionFiles, "questions", "q", nil, "question document (repeatable; txt, pdf, html)")
	cmd.Flags().StringSliceVarP(&answerFiles, "answers", "a", nil, "answer document (repeatable; txt, pdf, html)")
	cmd.Flags().StringVar(&title, "title", "", "drill title")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func runPlay(cmd *cobra.Command, questionFiles, answerFiles []string, title string, noColor bool) error {
	ctx := cmd.Context()

	questionsText, err := source.ReadAll(questionFiles)
	if err != nil {
		return err
	}
	answersText, err := source.ReadAll(answerFiles)
	if err != nil {
		return err
	}

	service := newOfflineService()
	quiz, err := service.CreateQuiz(ctx, title, questionsText, answersText)
	if err != nil {
		return err
	}
	view, err := service.StartSession(ctx, quiz.ID)
	if err != nil {
		return err
	}
	updates, cancel, err := service.Subscribe(ctx, view.SessionID)
	if err != nil {
		return err
	}

	model := tui.NewModel(service, view, updates, cancel, tui.Options{NoColor: noColor})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// newOfflineService wires a drill service entirely in memory for one-shot
// local runs.
func newOfflineService() *app.DrillService {
	documents := memory.NewDocumentStore()
	repo := memory.NewQuizRepository(memory.NewDocumentQuizLoader(documents), 5*time.Minute)
	return app.NewDrillService(memory.NewSessionStore(), repo, documents, nil)
}
