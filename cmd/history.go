package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled actions",
	Long: "List actions recorded in the journal, newest first. The journal is kept\n" +
		"in memory unless --journal (or journal.dsn) names a database file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		action, _ := cmd.Flags().GetString("action")

		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.store.EventRepo().QueryRequests(cmd.Context(), journal.QueryOpts{Limit: limit})
		if err != nil {
			return err
		}
		events = filterAction(events, action)

		if format != formatText {
			return writeStructured(cmd.OutOrStdout(), format, events)
		}
		if len(events) == 0 {
			printf(cmd, "No actions recorded.\n")
			return nil
		}

		printf(cmd, "%-5s  %-19s  %-10s  %-3s  %-7s  %-7s  %s\n",
			"Seq", "Timestamp", "Action", "OK", "Applied", "Ms", "Summary")
		printf(cmd, "%s\n", strings.Repeat("─", 90))
		for _, e := range events {
			summary := e.Summary
			if !e.Success {
				summary = e.ErrorMessage
			}
			printf(cmd, "%-5d  %-19s  %-10s  %-3s  %-7s  %-7d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Action,
				mark(e.Success),
				mark(e.Applied),
				e.LatencyMs,
				summary,
			)
		}
		return nil
	},
}

func init() {
	addFormatFlag(historyCmd)
	historyCmd.Flags().Int("limit", 50, "Maximum number of events")
	historyCmd.Flags().String("action", "", "Only show this action (status, ask, quiz, upload, clear-temp)")
}

func filterAction(events []journal.RequestEventRecord, action string) []journal.RequestEventRecord {
	if action == "" {
		return events
	}
	out := events[:0]
	for _, e := range events {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
