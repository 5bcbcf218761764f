package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/staycheck/internal/intent"
	"github.com/ppiankov/staycheck/internal/model"
	"github.com/ppiankov/staycheck/internal/render"
	"github.com/ppiankov/staycheck/internal/session"
	"github.com/spf13/cobra"
)

var (
	chatCity    string
	chatSession string
)

// chatCmd starts an interactive conversation
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive hotel-recommendation chat",
	Long: `Chat starts an interactive conversation. Every answer is verified
against live hotel data before it is printed.

Type 'exit' or 'quit' to stop, '/reset' to forget the conversation.

With --session the conversation is stored in the configured session
backend and resumed on the next run with the same ID.

Example:
  staycheck chat
  staycheck chat --session trip-2026 --city Tokyo`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVar(&chatCity, "city", "", "destination city for every turn")
	chatCmd.Flags().StringVar(&chatSession, "session", "", "session ID to resume and persist")
}

// turnRunner runs one verified turn
type turnRunner interface {
	ProcessTurn(ctx context.Context, req model.TurnRequest) (*model.TurnResult, error)
}

// repl is one interactive conversation
type repl struct {
	runner    turnRunner
	store     session.Store // nil when not persisting
	sessionID string
	city      string
	verbose   bool
	in        io.Reader
	out       io.Writer
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	r := &repl{
		runner:  a.pipeline,
		city:    chatCity,
		verbose: verbose,
		in:      cmd.InOrStdin(),
		out:     cmd.OutOrStdout(),
	}

	if chatSession != "" {
		store, err := session.New(a.cfg.Session)
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		defer store.Close()
		r.store = store
		r.sessionID = chatSession
	}

	return r.run(cmd.Context())
}

func (r *repl) run(ctx context.Context) error {
	var history []model.Message
	if r.store != nil {
		stored, found, err := r.store.Load(ctx, r.sessionID)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		if found {
			history = stored
			fmt.Fprintf(r.out, "Resumed session %s (%d messages)\n", r.sessionID, len(history))
		}
	}

	fmt.Fprintln(r.out, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(r.out, "  Staycheck - verified hotel recommendations")
	fmt.Fprintln(r.out, "  Type 'exit' or 'quit' to stop.")
	fmt.Fprintln(r.out, "═══════════════════════════════════════════════════════════")

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "\nYou: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		case "/reset":
			history = nil
			if r.store != nil {
				if err := r.store.Delete(ctx, r.sessionID); err != nil {
					return fmt.Errorf("reset session: %w", err)
				}
			}
			fmt.Fprintln(r.out, "Conversation cleared.")
			continue
		}

		result, err := r.runner.ProcessTurn(ctx, intent.Request(line, history, r.city))
		if err != nil {
			var ce *model.CompletionError
			if errors.As(err, &ce) && ce.Code != model.CodeCancelled {
				// Keep the conversation going; the user can retry
				fmt.Fprintf(r.out, "\nAssistant: %s\n", ce.UserMessage())
				continue
			}
			return userError(err)
		}

		fmt.Fprint(r.out, "\nAssistant: ")
		if err := render.Text(r.out, result, r.verbose); err != nil {
			return err
		}

		history = result.History
		if r.store != nil {
			if err := r.store.Save(ctx, r.sessionID, history); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
		}
	}

	return scanner.Err()
}
