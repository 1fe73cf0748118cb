package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/skillora/internal/config"
	"github.com/abhisek/skillora/internal/record"
	"github.com/abhisek/skillora/internal/report"
	"github.com/abhisek/skillora/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		return withRecorder(cmd, func(ctx context.Context, _ *config.Config, rec *store.Recorder) error {
			reqs, _, err := store.LoadAll[record.LLMRequest](ctx, rec)
			if err != nil {
				return fmt.Errorf("query requests: %w", err)
			}
			printLLMList(cmd.OutOrStdout(), report.FilterLLM(reqs, purpose, limit))
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View the full request and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRecorder(cmd, func(ctx context.Context, _ *config.Config, rec *store.Recorder) error {
			req, err := store.Get[record.LLMRequest](ctx, rec, args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("request %s not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("get request: %w", err)
			}
			printLLMRequest(cmd.OutOrStdout(), req)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRecorder(cmd, func(ctx context.Context, _ *config.Config, rec *store.Recorder) error {
			reqs, _, err := store.LoadAll[record.LLMRequest](ctx, rec)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			printLLMStats(cmd.OutOrStdout(), report.SummarizeLLM(reqs))
			return nil
		})
	},
}

func printLLMList(out io.Writer, reqs []record.LLMRequest) {
	if len(reqs) == 0 {
		fmt.Fprintln(out, "No LLM requests found.")
		return
	}

	fmt.Fprintf(out, "%-12s  %-19s  %-8s  %-28s  %-6s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
	fmt.Fprintln(out, strings.Repeat("─", 100))

	for _, r := range reqs {
		ok := "✓"
		if !r.Success {
			ok = "✗"
		}
		fmt.Fprintf(out, "%-12s  %-19s  %-8s  %-28s  %-6d  %-6d  %-7d  %s\n",
			truncate(r.ID, 12),
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			r.Purpose,
			truncate(r.Model, 28),
			r.InputTokens,
			r.OutputTokens,
			r.LatencyMs,
			ok,
		)
	}
}

func printLLMRequest(out io.Writer, r record.LLMRequest) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(out, "ID:        %s\n", r.ID)
	fmt.Fprintf(out, "Time:      %s\n", r.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Provider:  %s\n", r.Provider)
	fmt.Fprintf(out, "Model:     %s\n", r.Model)
	fmt.Fprintf(out, "Purpose:   %s\n", r.Purpose)
	fmt.Fprintf(out, "Tokens:    %d in / %d out\n", r.InputTokens, r.OutputTokens)
	fmt.Fprintf(out, "Latency:   %dms\n", r.LatencyMs)
	fmt.Fprintf(out, "Success:   %v\n", r.Success)
	if r.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:     %s\n", r.ErrorMessage)
	}

	for _, part := range []struct{ title, body string }{
		{"REQUEST", r.RequestBody},
		{"RESPONSE", r.ResponseBody},
	} {
		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, part.title)
		fmt.Fprintln(out, sep)
		if part.body != "" {
			fmt.Fprintln(out, part.body)
		} else {
			fmt.Fprintln(out, "(not captured)")
		}
	}
}

func printLLMStats(out io.Writer, u report.LLMUsage) {
	if u.Calls == 0 {
		fmt.Fprintln(out, "No LLM usage recorded yet.")
		return
	}

	rule := strings.Repeat("─", 72)

	fmt.Fprintln(out, "Usage by Purpose")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	fmt.Fprintln(out, rule)

	var totalIn, totalOut int
	for _, p := range u.ByPurpose {
		fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			p.Purpose, p.Calls, p.InputTokens, p.OutputTokens, p.InputTokens+p.OutputTokens, p.AvgLatencyMs)
		totalIn += p.InputTokens
		totalOut += p.OutputTokens
	}
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %10d\n",
		"TOTAL", u.Calls, totalIn, totalOut, totalIn+totalOut)
	if u.Failures > 0 {
		fmt.Fprintf(out, "%d of %d calls failed.\n", u.Failures, u.Calls)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Estimated Cost (USD)")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n",
		"Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(out, rule)

	for _, m := range u.ByModel {
		cost := "?"
		if m.Priced {
			cost = formatCost(m.CostUSD)
		}
		fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
			truncate(m.Model, 32), m.Calls, m.InputTokens, m.OutputTokens, cost)
	}

	fmt.Fprintln(out, rule)
	label := "TOTAL"
	if len(u.Unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n",
		label, "", "", "", formatCost(u.TotalCost))

	if len(u.Unpriced) > 0 {
		fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(u.Unpriced, ", "))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (intro or reply)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
