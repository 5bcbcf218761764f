package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/staycheck/internal/intent"
	"github.com/ppiankov/staycheck/internal/model"
	"github.com/ppiankov/staycheck/internal/render"
	"github.com/spf13/cobra"
)

var (
	askCity    string
	askJSON    bool
	askTimeout time.Duration
)

// askCmd runs a single verified turn
var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask for hotel recommendations once",
	Long: `Ask runs one conversation turn: fetches hotel data for the destination,
drafts an answer with the language model, verifies it and corrects it if
needed.

Example:
  staycheck ask "Find me hotels in Barcelona under $200"
  staycheck ask "Where should I stay?" --city Lisbon --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&askCity, "city", "", "destination city (overrides the one in the message)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full turn result as JSON")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "overall timeout for the turn")
}

// askOutput is the JSON shape printed by ask --json
type askOutput struct {
	*model.TurnResult
	Cards []render.Card `json:"cards"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), askTimeout)
	defer cancel()

	message := strings.Join(args, " ")
	result, err := a.pipeline.ProcessTurn(ctx, intent.Request(message, nil, askCity))
	if err != nil {
		return userError(err)
	}

	if askJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(askOutput{TurnResult: result, Cards: render.Cards(result)})
	}
	return render.Text(os.Stdout, result, verbose)
}

// userError keeps the friendly message of a completion failure and the
// cause for verbose runs
func userError(err error) error {
	var ce *model.CompletionError
	if !errors.As(err, &ce) {
		return err
	}
	if verbose {
		return fmt.Errorf("%s (%w)", ce.UserMessage(), err)
	}
	return errors.New(ce.UserMessage())
}
