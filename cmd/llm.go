package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/robosim/internal/llm"
	"github.com/abhisek/robosim/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect model calls made to translate free-text commands",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		calls, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query model calls: %w", err)
		}

		shown := 0
		for _, e := range calls {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			if failedOnly && e.Success {
				continue
			}
			if shown == 0 {
				fmt.Printf("%-5s  %-16s  %-18s  %-24s  %9s  %6s  %s\n",
					"ID", "When", "Purpose", "Model", "Tokens", "Ms", "OK")
				rule(94)
			}
			shown++
			fmt.Printf("%-5d  %-16s  %-18s  %-24s  %9s  %6d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("01-02 15:04:05"),
				truncate(e.Purpose, 18),
				truncate(e.Model, 24),
				fmt.Sprintf("%d/%d", e.InputTokens, e.OutputTokens),
				e.LatencyMs,
				mark(e.Success),
			)
		}
		if shown == 0 {
			fmt.Println("No model calls recorded.")
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one model call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get model call: %w", err)
		}
		if e == nil {
			return fmt.Errorf("model call %d not found", id)
		}

		fmt.Printf("%-9s  %d\n", "ID", e.ID)
		fmt.Printf("%-9s  %s\n", "Time", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("%-9s  %s / %s\n", "Model", e.Provider, e.Model)
		fmt.Printf("%-9s  %s\n", "Purpose", e.Purpose)
		fmt.Printf("%-9s  %d in, %d out, %dms\n", "Usage", e.InputTokens, e.OutputTokens, e.LatencyMs)
		if e.Success {
			fmt.Printf("%-9s  ok\n", "Result")
		} else {
			fmt.Printf("%-9s  failed: %s\n", "Result", e.ErrorMessage)
		}

		section("Prompt", e.RequestBody)
		section("Reply", e.ResponseBody)
		return nil
	},
}

var llmUsageCmd = &cobra.Command{
	Use:     "usage",
	Aliases: []string{"stats"},
	Short:   "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No model calls recorded yet.")
			return nil
		}

		fmt.Printf("%-20s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Avg Ms")
		rule(62)
		for _, u := range byPurpose {
			fmt.Printf("%-20s  %6d  %10d  %10d  %8d\n",
				truncate(u.Purpose, 20), u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		}

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		fmt.Println()
		fmt.Printf("%-30s  %6s  %10s\n", "Model", "Calls", "Cost")
		rule(50)
		var unpriced []string
		for _, u := range byModel {
			cost := "?"
			if p := llm.LookupCost(u.Model); p != nil {
				cost = formatCost(p.Cost(u.InputTokens, u.OutputTokens))
			} else {
				unpriced = append(unpriced, u.Model)
			}
			fmt.Printf("%-30s  %6d  %10s\n", truncate(u.Model, 30), u.Calls, cost)
		}
		total, _ := llm.TotalCost(byModel)
		rule(50)
		fmt.Printf("%-30s  %6s  %10s\n", "Total", "", formatCost(total))
		if len(unpriced) > 0 {
			fmt.Printf("\nNo pricing for %s; the total leaves them out.\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

func section(title, body string) {
	fmt.Println()
	fmt.Println(title)
	rule(60)
	if body == "" {
		fmt.Println("(not captured)")
		return
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, []byte(body), "", "  ") == nil {
		body = pretty.String()
	}
	fmt.Println(body)
}

func rule(width int) {
	fmt.Println(strings.Repeat("─", width))
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show calls with this purpose (e.g. "+llm.PurposeCommandTranslate+")")
	llmListCmd.Flags().Bool("failed", false, "Only show failed calls")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmUsageCmd)
}
