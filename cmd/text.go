package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lepinkainen/truthscore/analyze"
	"github.com/lepinkainen/truthscore/types"
	"github.com/lepinkainen/truthscore/ui"
)

// TextCmd verifies a claim against the fact-check service.
type TextCmd struct {
	Text []string `arg:"" name:"text" help:"Claim to verify"`
	JSON bool     `help:"Print the result as JSON"`
}

func (cmd *TextCmd) Run(appCtx *types.AppContext) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outcome := newDispatcher(appCtx).Text(ctx, strings.Join(cmd.Text, " "))
	if cmd.JSON {
		return writeTextJSON(os.Stdout, outcome)
	}
	printTextOutcome(os.Stdout, outcome)
	return nil
}

func writeTextJSON(w io.Writer, outcome analyze.Outcome) error {
	payload := struct {
		analyze.Outcome
		Error string `json:"error,omitempty"`
	}{Outcome: outcome}
	if outcome.Err != nil {
		payload.Error = outcome.Err.Error()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func printTextOutcome(w io.Writer, outcome analyze.Outcome) {
	if outcome.OK() {
		fmt.Fprintf(w, "%s\n", ui.SuccessStyle.Render("✅ "+outcome.Message))
		return
	}
	fmt.Fprintf(w, "%s\n", ui.ErrorStyle.Render("❌ "+outcome.Message))
	fmt.Fprintf(w, "%s\n", ui.DimStyle.Render(outcome.Err.Error()))
}
