package cmd

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/journal"
	"github.com/abhisek/studybuddy/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect model calls made by the direct backend",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		events, closeFn, err := loadLLMEvents(cmd, limit)
		if err != nil {
			return err
		}
		defer closeFn()

		if len(events) == 0 {
			printf(cmd, "No LLM events found.\n")
			return nil
		}

		printf(cmd, "%-5s  %-19s  %-8s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"Seq", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		printf(cmd, "%s\n", strings.Repeat("─", 100))
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			model := e.Model
			if len(model) > 28 {
				model = model[:28]
			}
			printf(cmd, "%-5d  %-19s  %-8s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				model,
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				mark(e.Success),
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <seq>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid sequence %q", args[0])
		}

		events, closeFn, err := loadLLMEvents(cmd, 0)
		if err != nil {
			return err
		}
		defer closeFn()

		var e *journal.LLMEventRecord
		for i := range events {
			if events[i].Sequence == seq {
				e = &events[i]
				break
			}
		}
		if e == nil {
			return errors.Errorf("event %d not found", seq)
		}

		sep := strings.Repeat("─", 60)
		printf(cmd, "Seq:       %d\n", e.Sequence)
		printf(cmd, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		printf(cmd, "Provider:  %s\n", e.Provider)
		printf(cmd, "Model:     %s\n", e.Model)
		printf(cmd, "Purpose:   %s\n", e.Purpose)
		printf(cmd, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		printf(cmd, "Latency:   %dms\n", e.LatencyMs)
		printf(cmd, "Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			printf(cmd, "Error:     %s\n", e.ErrorMessage)
		}

		for _, part := range []struct{ title, body string }{
			{"REQUEST", e.RequestBody},
			{"RESPONSE", e.ResponseBody},
		} {
			printf(cmd, "\n%s\n%s\n%s\n", sep, part.title, sep)
			if part.body == "" {
				printf(cmd, "(not captured)\n")
				continue
			}
			printf(cmd, "%s\n", part.body)
		}
		return nil
	},
}

// modelUsage aggregates calls to one model.
type modelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	latencyTotal int64
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		events, closeFn, err := loadLLMEvents(cmd, 0)
		if err != nil {
			return err
		}
		defer closeFn()

		if len(events) == 0 {
			printf(cmd, "No LLM usage recorded yet.\n")
			return nil
		}

		usage := aggregateByModel(events)
		printf(cmd, "%-28s  %6s  %10s  %10s  %8s  %10s\n",
			"Model", "Calls", "Input", "Output", "Avg Ms", "Est. USD")
		printf(cmd, "%s\n", strings.Repeat("─", 82))

		var totalCost float64
		for _, u := range usage {
			cost := "-"
			if mc := llm.LookupCost(u.Model); mc != nil {
				c := mc.Cost(u.InputTokens, u.OutputTokens)
				totalCost += c
				cost = strconv.FormatFloat(c, 'f', 4, 64)
			}
			printf(cmd, "%-28s  %6d  %10d  %10d  %8d  %10s\n",
				u.Model, u.Calls, u.InputTokens, u.OutputTokens, u.latencyTotal/int64(u.Calls), cost)
		}
		printf(cmd, "%s\n", strings.Repeat("─", 82))
		printf(cmd, "%-28s  %6s  %10s  %10s  %8s  %10.4f\n", "TOTAL", "", "", "", "", totalCost)
		return nil
	},
}

func init() {
	llmListCmd.Flags().Int("limit", 50, "Maximum number of events to show")
	llmListCmd.Flags().String("purpose", "", "Filter by purpose (ask, quiz)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}

// loadLLMEvents opens the configured journal and reads LLM events, newest
// first.
func loadLLMEvents(cmd *cobra.Command, limit int) ([]journal.LLMEventRecord, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st, err := journal.Open(cfg.Journal.DSN)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open journal")
	}
	events, err := st.EventRepo().QueryLLMEvents(cmd.Context(), journal.QueryOpts{Limit: limit})
	if err != nil {
		st.Close()
		return nil, nil, errors.Wrap(err, "query events")
	}
	return events, func() { st.Close() }, nil
}

func aggregateByModel(events []journal.LLMEventRecord) []modelUsage {
	byModel := make(map[string]*modelUsage)
	for _, e := range events {
		u, ok := byModel[e.Model]
		if !ok {
			u = &modelUsage{Model: e.Model}
			byModel[e.Model] = u
		}
		u.Calls++
		u.InputTokens += e.InputTokens
		u.OutputTokens += e.OutputTokens
		u.latencyTotal += e.LatencyMs
	}
	out := make([]modelUsage, 0, len(byModel))
	for _, u := range byModel {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Calls > out[j].Calls })
	return out
}
