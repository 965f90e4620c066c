package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"quizdrill/internal/domain"
	"quizdrill/internal/quiztext"
	"quizdrill/internal/source"
)

// NewCheckCmd validates drill documents and reports how they match up,
// without starting a session.
func NewCheckCmd() *cobra.Command {
	var (
		questionFiles []string
		answerFiles   []string
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate question and answer documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(questionFiles) == 0 || len(answerFiles) == 0 {
				return fmt.Errorf("both --questions and --answers are required")
			}
			return runCheck(cmd, questionFiles, answerFiles)
		},
	}
	cmd.Flags().StringSliceVarP(&questionFiles, "questions", "q", nil, "question document (repeatable)")
	cmd.Flags().StringSliceVarP(&answerFiles, "answers", "a", nil, "answer document (repeatable)")
	return cmd
}

func runCheck(cmd *cobra.Command, questionFiles, answerFiles []string) error {
	out := cmd.OutOrStdout()

	questionsText, err := source.ReadAll(questionFiles)
	if err != nil {
		return err
	}
	answersText, err := source.ReadAll(answerFiles)
	if err != nil {
		return err
	}

	parsed := quiztext.ParseQuestions(questionsText)
	if len(parsed) == 0 {
		return domain.ErrNoQuestions
	}
	answers := quiztext.ParseAnswers(answersText)
	if len(answers) == 0 {
		return domain.ErrNoAnswers
	}
	questions := quiztext.Match(parsed, answers)

	matched := 0
	for _, q := range questions {
		label := "matched"
		if q.Status == domain.StatusUngraded {
			label = "no answer key"
		} else {
			matched++
		}
		fmt.Fprintf(out, "Q%-4s %-8s %d choices  %s\n", q.ID, q.Type, len(q.Choices), label)
	}

	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	var orphans []string
	for id := range answers {
		if !known[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)

	fmt.Fprintf(out, "\n%d questions, %d answer entries, %d matched, %d without keys\n",
		len(questions), len(answers), matched, len(questions)-matched)
	if len(orphans) > 0 {
		fmt.Fprintf(out, "answer entries with no question: %v\n", orphans)
	}
	return nil
}
