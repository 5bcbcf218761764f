package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/ppiankov/staycheck/internal/worker"
	"github.com/spf13/cobra"
)

var (
	replayConcurrency int
	replayTimeout     time.Duration
	replayJSON        bool
)

// replayCmd replays scripted conversations
var replayCmd = &cobra.Command{
	Use:   "replay <scenarios.yaml>",
	Short: "Replay scripted conversations and report verification stats",
	Long: `Replay runs scripted conversations through the full pipeline in
parallel and reports how many turns were accepted, corrected or exhausted.

Scenario file format:
  scenarios:
    - name: paris-budget
      turns:
        - "Find me hotels in Paris"
        - "Which one is the cheapest?"
        - "Thanks!"

Example:
  staycheck replay scenarios.yaml
  staycheck replay scenarios.yaml --concurrency 8 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().IntVar(&replayConcurrency, "concurrency", runtime.NumCPU(), "scenarios replayed in parallel")
	replayCmd.Flags().DurationVar(&replayTimeout, "timeout", 10*time.Minute, "total timeout for the replay")
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "print stats as JSON")
}

func runReplay(cmd *cobra.Command, args []string) error {
	file := args[0]

	scenarios, err := worker.LoadScenarios(file)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), replayTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Staycheck Replay\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Scenarios:    %d\n", len(scenarios))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", replayConcurrency)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", replayTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	results := worker.NewReplayer(a.pipeline, replayConcurrency, a.logger).Run(ctx, scenarios)
	stats := worker.Stats(results)

	if replayJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(stats); err != nil {
			return err
		}
	} else {
		printReplay(os.Stderr, results, stats)
	}

	return worker.FailedScenarios(results)
}

func printReplay(w io.Writer, results []worker.ScenarioResult, stats worker.ReplayStats) {
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(w, "✗ %s: %v\n", res.Name, res.Err)
			continue
		}
		validated := 0
		for _, t := range res.Turns {
			if t.Validated {
				validated++
			}
		}
		fmt.Fprintf(w, "✓ %s (%d/%d turns validated)\n", res.Name, validated, len(res.Turns))
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  Replay Complete\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Scenarios:     %d (%d failed)\n", stats.Scenarios, stats.Failed)
	fmt.Fprintf(w, "  Turns:         %d\n", stats.Turns)
	fmt.Fprintf(w, "  Validated:     %d (%d after correction)\n", stats.Validated, stats.Corrected)
	fmt.Fprintf(w, "  Exhausted:     %d\n", stats.Exhausted)
	fmt.Fprintf(w, "  Avg attempts:  %.2f\n", stats.AvgAttempts)
	fmt.Fprintf(w, "  Issues found:  %d\n", stats.Issues)
	fmt.Fprintf(w, "\n")
}
