package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/term"

	concierge "github.com/aretw0/concierge"
	"github.com/aretw0/concierge/internal/presentation/tui"
	"github.com/aretw0/concierge/pkg/domain"
)

// ChatOptions configures the interactive chat loop.
type ChatOptions struct {
	SessionID string
	CallerID  string
}

// RunChat drives a terminal conversation against the engine. It blocks
// until stdin closes, the user types "exit", or ctx is cancelled.
func RunChat(ctx context.Context, engine *concierge.Engine, opts ChatOptions) error {
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	if opts.CallerID == "" {
		opts.CallerID = DemoCallerID
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	render := func(s string) string { return s }
	if interactive {
		render = tui.NewRenderer()
		tui.PrintBanner(concierge.Version)
		fmt.Printf("session %s as %s. Type 'exit' to quit.\n\n", opts.SessionID, opts.CallerID)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if ctx.Err() != nil {
			return nil
		}
		if interactive {
			fmt.Print("you> ")
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && err != io.EOF {
				return err
			}
			return nil
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return nil
		}

		result, err := engine.Submit(ctx, opts.SessionID, opts.CallerID, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		for result.RequiresDecision {
			result, err = resolveDecision(ctx, engine, opts, scanner, result)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				break
			}
		}
		if err != nil {
			continue
		}
		fmt.Print(render(result.Reply))
		if !interactive {
			fmt.Println()
		}
	}
}

// resolveDecision shows the suspended actions and prompts for approval.
func resolveDecision(ctx context.Context, engine *concierge.Engine, opts ChatOptions, scanner *bufio.Scanner, result *concierge.TurnResult) (*concierge.TurnResult, error) {
	fmt.Println("\nThe assistant wants to run:")
	for _, call := range result.Pending.Actions {
		fmt.Printf("  - %s %s\n", call.Name, formatArgs(call.Args))
	}
	fmt.Print("Approve? [y/N]: ")
	if !scanner.Scan() {
		return engine.SubmitDecision(ctx, opts.SessionID, opts.CallerID, false, "input closed")
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	if answer == "y" || answer == "yes" {
		return engine.SubmitDecision(ctx, opts.SessionID, opts.CallerID, true, "")
	}

	fmt.Print("Reason (optional): ")
	reason := ""
	if scanner.Scan() {
		reason = strings.TrimSpace(scanner.Text())
	}
	return engine.SubmitDecision(ctx, opts.SessionID, opts.CallerID, false, reason)
}

func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	data, err := json.Marshal(args)
	if err != nil {
		return ""
	}
	return string(data)
}

// PrintState pretty-prints a session transcript for inspection.
func PrintState(w io.Writer, state *domain.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
