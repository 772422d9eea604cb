package cmd

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/conversation"
	"github.com/abhisek/studybuddy/internal/normalize"
)

// askOutput is the structured form of an answered question.
type askOutput struct {
	Query  string           `json:"query" yaml:"query"`
	Answer string           `json:"answer" yaml:"answer"`
	Source normalize.Source `json:"source" yaml:"source"`
}

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask a question about the indexed documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		width, _ := cmd.Flags().GetInt("width")

		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		turn, err := s.ctrl.Ask(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return userError(err)
		}
		if turn.State == conversation.Failed {
			return errors.New(turn.FailureReason)
		}

		out := askOutput{Query: turn.Query, Source: turn.Source}
		if turn.Answer != nil {
			out.Answer = *turn.Answer
		}
		if format != formatText {
			return writeStructured(cmd.OutOrStdout(), format, out)
		}

		rendered := renderMarkdown(out.Answer, width)
		printf(cmd, "%s", rendered)
		if !strings.HasSuffix(rendered, "\n") {
			printf(cmd, "\n")
		}
		if label := out.Source.Label(); label != "" {
			printf(cmd, "\nSource: %s\n", label)
		}
		return nil
	},
}

func init() {
	addFormatFlag(askCmd)
	askCmd.Flags().Int("width", 80, "Wrap width for rendered answers")
}
