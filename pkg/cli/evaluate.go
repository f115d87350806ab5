package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mchmarny/ambiclass/pkg/evaluation"
	"github.com/mchmarny/ambiclass/pkg/wordlist"
	urfave "github.com/urfave/cli/v2"
)

var (
	showMismatchesFlag = &urfave.IntFlag{
		Name:  "show-mismatches",
		Usage: "Display up to N misclassified words",
		Value: 0,
	}

	reportPathFlag = &urfave.StringFlag{
		Name:  "report",
		Usage: "Write a JSON summary to this path (.yaml/.yml for YAML)",
	}

	summaryOnlyFlag = &urfave.BoolFlag{
		Name:  "summary-only",
		Usage: "Only include aggregate counts in the report (omit word lists)",
	}

	evaluateCmd = &urfave.Command{
		Name:      "evaluate",
		Aliases:   []string{"e"},
		Usage:     "Evaluate classifier outputs against a gold standard TSV (Word and Truth columns)",
		ArgsUsage: "GOLD_STANDARD AMBIGUOUS_PREDICTIONS PROPER_PREDICTIONS",
		UsageText: `ambiclass evaluate gold.tsv ambiguous.txt proper.txt
   ambiclass evaluate --show-mismatches 10 --report out/report.json gold.tsv ambiguous.txt proper.txt`,
		Action: cmdEvaluate,
		Flags: []urfave.Flag{
			showMismatchesFlag,
			reportPathFlag,
			summaryOnlyFlag,
		},
	}
)

func cmdEvaluate(c *urfave.Context) error {
	if c.NArg() != 3 {
		return errors.New("evaluate requires GOLD_STANDARD, AMBIGUOUS_PREDICTIONS and PROPER_PREDICTIONS")
	}
	goldPath, ambiguousPath, properPath := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)

	limit := c.Int(showMismatchesFlag.Name)
	if limit < 0 {
		return fmt.Errorf("--%s must not be negative", showMismatchesFlag.Name)
	}

	gold, err := evaluation.LoadGold(goldPath)
	if err != nil {
		return fmt.Errorf("loading gold standard: %w", err)
	}
	ambiguous, err := wordlist.Read(ambiguousPath)
	if err != nil {
		return fmt.Errorf("reading ambiguous predictions: %w", err)
	}
	proper, err := wordlist.Read(properPath)
	if err != nil {
		return fmt.Errorf("reading proper predictions: %w", err)
	}

	m, err := evaluation.Evaluate(gold, ambiguous, proper, evaluation.WithMismatchLimit(limit))
	if err != nil {
		return fmt.Errorf("evaluating: %w", err)
	}

	printSummary(c.App.Writer, m, limit)

	if path := c.String(reportPathFlag.Name); path != "" {
		report := m.Report(!c.Bool(summaryOnlyFlag.Name))
		if err := evaluation.WriteReport(path, report); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		slog.Info("report written", "path", path)
	}
	return nil
}

func printSummary(w io.Writer, m *evaluation.Metrics, limit int) {
	fmt.Fprintln(w, "Evaluation summary")
	fmt.Fprintf(w, "Total words: %d\n", m.GoldWords)
	fmt.Fprintf(w, "Gold ambiguous: %d\n", m.GoldAmbiguous)
	fmt.Fprintf(w, "Gold proper: %d\n", m.GoldNonAmbiguous)
	fmt.Fprintf(w, "Predicted ambiguous: %d\n", m.PredictedAmbiguous)
	fmt.Fprintf(w, "Predicted proper: %d\n", m.PredictedNonAmbiguous)
	fmt.Fprintf(w, "Accuracy: %s\n", m.Accuracy)
	fmt.Fprintf(w, "Precision (ambiguous): %s\n", m.Precision)
	fmt.Fprintf(w, "Recall (ambiguous): %s\n", m.Recall)
	fmt.Fprintf(w, "F1 (ambiguous): %s\n", m.F1)
	fmt.Fprintf(w, "True positives: %d\n", m.TruePositive)
	fmt.Fprintf(w, "True negatives: %d\n", m.TrueNegative)
	fmt.Fprintf(w, "False positives: %d\n", m.FalsePositive)
	fmt.Fprintf(w, "False negatives: %d\n", m.FalseNegative)
	fmt.Fprintf(w, "Missing from predictions: %d\n", len(m.Missing))
	fmt.Fprintf(w, "Extra ambiguous predictions: %d\n", len(m.UnscoredAmbiguous))
	fmt.Fprintf(w, "Extra proper predictions: %d\n", len(m.UnscoredNonAmbiguous))

	if limit <= 0 {
		return
	}
	for _, mm := range m.Mismatches {
		fmt.Fprintf(w, "Mismatch: %s (gold=%s, predicted=%s)\n", mm.Token, mm.Gold, mm.Predicted)
	}
	printExamples(w, "Missing in outputs", m.Missing, limit)
}

func printExamples(w io.Writer, title string, words []string, limit int) {
	if len(words) == 0 {
		return
	}
	shown := words
	more := ""
	if len(words) > limit {
		shown = words[:limit]
		more = fmt.Sprintf(" (and %d more)", len(words)-limit)
	}
	fmt.Fprintf(w, "%s: %s%s\n", title, strings.Join(shown, ", "), more)
}
