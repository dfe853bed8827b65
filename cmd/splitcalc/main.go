// Command splitcalc settles a bill from a JSON file without a server.
//
// Usage:
//
//	splitcalc [-json] [-v] [-breakdown] [file]
//
// The input is {"participants": [...], "expenses": [...],
// "additionalExpenses": [...]} read from file, or stdin when no file is
// given.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mmynk/splitbill/internal/calculator"
	"github.com/mmynk/splitbill/internal/report"
	"github.com/mmynk/splitbill/pkg/api"
	"github.com/mmynk/splitbill/pkg/logging"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "splitcalc:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("splitcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print the summary as JSON")
	verbose := fs.Bool("v", false, "enable debug logging")
	breakdown := fs.Bool("breakdown", false, "list each participant's owed items")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(logging.Options{Level: level, Writer: stderr})

	in := stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var req api.CalculateRequest
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	logger.Debug("Input loaded",
		"participants", len(req.Participants),
		"expenses", len(req.Expenses),
		"additional_expenses", len(req.AdditionalExpenses),
	)

	diags := []calculator.Diagnostic{}
	summary := calculator.Calculate(req.Participants, req.Expenses, req.AdditionalExpenses,
		calculator.WithDiagnostics(func(d calculator.Diagnostic) {
			diags = append(diags, d)
			logger.Warn("Skipped reference",
				"kind", d.Kind,
				"expense_id", d.ExpenseID,
				"additional", d.Additional,
				"participant_id", d.ParticipantID,
			)
		}),
	)

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(api.CalculateResponse{Summary: summary, Diagnostics: diags})
	}

	if err := report.Render(stdout, req.Participants, summary); err != nil {
		return err
	}
	if *breakdown {
		fmt.Fprintln(stdout)
		return report.RenderBreakdown(stdout, req.Participants, summary)
	}
	return nil
}
