package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/dashboard"
	"github.com/abhisek/studybuddy/internal/normalize"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Generate a quiz from the indexed documents",
	Example: "  studybuddy quiz --topic photosynthesis --num 5 --difficulty hard\n" +
		"  studybuddy quiz --variant mock -o yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}

		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		req := quizRequest(cmd, s.cfg.Quiz.Variant, s.cfg.Quiz.NumQuestions, s.cfg.Quiz.Difficulty)
		state, err := s.ctrl.GenerateQuiz(cmd.Context(), req)
		if err != nil {
			return userError(err)
		}
		if format != formatText {
			return writeStructured(cmd.OutOrStdout(), format, state.Quiz)
		}
		answers, _ := cmd.Flags().GetBool("answers")
		printQuiz(cmd, state, answers)
		return nil
	},
}

func init() {
	addFormatFlag(quizCmd)
	f := quizCmd.Flags()
	f.String("topic", "", "Quiz topic (required for the topic variant)")
	f.IntP("num", "n", 0, "Number of questions (default from config)")
	f.String("difficulty", "", "Easy, Medium, Hard or a 1-5 rating (default from config)")
	f.String("variant", "", "Quiz variant: topic or mock (default from config)")
	f.Bool("answers", false, "Print correct answers and explanations")
}

// quizRequest builds a request from flags, falling back to configured
// defaults for anything not given.
func quizRequest(cmd *cobra.Command, variant backend.Variant, num int, difficulty normalize.Difficulty) backend.QuizRequest {
	f := cmd.Flags()
	topic, _ := f.GetString("topic")
	req := backend.QuizRequest{
		Topic:        topic,
		NumQuestions: num,
		Difficulty:   difficulty,
		Variant:      variant,
	}
	if f.Changed("num") {
		req.NumQuestions, _ = f.GetInt("num")
	}
	if d, _ := f.GetString("difficulty"); strings.TrimSpace(d) != "" {
		req.Difficulty = normalize.ParseDifficulty(d)
	}
	if v, _ := f.GetString("variant"); strings.TrimSpace(v) != "" {
		req.Variant = backend.Variant(strings.ToLower(strings.TrimSpace(v)))
	}
	return req
}

func printQuiz(cmd *cobra.Command, state dashboard.QuizState, answers bool) {
	q := state.Quiz
	if len(q.Questions) == 0 {
		printf(cmd, "No questions were returned for this request.\n")
		return
	}
	if q.Title != "" {
		printf(cmd, "%s\n\n", q.Title)
	}
	for i, question := range q.Questions {
		printf(cmd, "%d. %s  [%s]\n", i+1, question.Text, question.Difficulty)
		for _, o := range question.Options {
			printf(cmd, "   %s. %s\n", o.Label, o.Text)
		}
		if answers {
			if question.CorrectAnswer != nil {
				answer := *question.CorrectAnswer
				if o, ok := question.CorrectOption(); ok {
					answer = o.Label + ". " + o.Text
				}
				printf(cmd, "   Answer: %s\n", answer)
			}
			if question.Explanation != nil && *question.Explanation != "" {
				printf(cmd, "   %s\n", *question.Explanation)
			}
		}
		printf(cmd, "\n")
	}
}
