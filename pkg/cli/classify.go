package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mchmarny/ambiclass/pkg/classifier"
	"github.com/mchmarny/ambiclass/pkg/config"
	"github.com/mchmarny/ambiclass/pkg/freq"
	"github.com/mchmarny/ambiclass/pkg/wordlist"
	urfave "github.com/urfave/cli/v2"
)

var (
	sortedFlag = &urfave.BoolFlag{
		Name:  "sorted",
		Usage: "Write each list deduplicated and sorted instead of in input order",
	}

	commonWordsFlag = &urfave.StringFlag{
		Name:  "common-words",
		Usage: "Word list replacing the bundled common-noun set",
	}

	properWordsFlag = &urfave.StringFlag{
		Name:  "proper-words",
		Usage: "Word list always routed to the proper (non-ambiguous) output",
	}

	frequencySourceFlag = &urfave.StringFlag{
		Name:  "frequency",
		Usage: "Zipf frequency source: TSV table (word<TAB>zipf) or SQLite database (.db)",
	}

	useFrequencyFlag = &urfave.BoolFlag{
		Name:  "use-frequency",
		Usage: fmt.Sprintf("Enable the frequency signal (also %s=1)", config.UseFrequencyEnvVar),
	}

	unresolvedFlag = &urfave.StringFlag{
		Name:  "unresolved",
		Usage: fmt.Sprintf("Bucket for scores between the thresholds [%s, %s]", classifier.NonAmbiguous, classifier.Ambiguous),
	}

	explainFlag = &urfave.BoolFlag{
		Name:  "explain",
		Usage: "Print the per-token score breakdown",
	}

	classifyCmd = &urfave.Command{
		Name:      "classify",
		Aliases:   []string{"c"},
		Usage:     "Split a word list into likely ambiguous and likely non-ambiguous nouns",
		ArgsUsage: "INPUT AMBIGUOUS_OUTPUT PROPER_OUTPUT",
		UsageText: `ambiclass classify words.txt ambiguous.txt proper.txt
   AMBICLASS_USE_WORDFREQ=1 ambiclass classify --frequency zipf.db words.txt ambiguous.txt proper.txt`,
		Action: cmdClassify,
		Flags: []urfave.Flag{
			sortedFlag,
			commonWordsFlag,
			properWordsFlag,
			frequencySourceFlag,
			useFrequencyFlag,
			unresolvedFlag,
			explainFlag,
		},
	}
)

func cmdClassify(c *urfave.Context) error {
	if c.NArg() != 3 {
		return errors.New("classify requires INPUT, AMBIGUOUS_OUTPUT and PROPER_OUTPUT")
	}
	input, ambiguousPath, properPath := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)

	app := getConfig(c)
	cfg := *app.Config
	applyClassifyFlags(c, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	words, err := wordlist.Read(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	for _, p := range []string{ambiguousPath, properPath} {
		if err := wordlist.CheckOutput(p); err != nil {
			return fmt.Errorf("checking output: %w", err)
		}
	}

	scorer, closer, err := newScorer(&cfg)
	if err != nil {
		return err
	}
	defer closer()

	if c.Bool(explainFlag.Name) {
		if err := explain(c, scorer, words, app.Format); err != nil {
			return err
		}
	}

	part := scorer.ClassifyMany(words)
	ambiguous, proper := part.Ambiguous, part.NonAmbiguous
	if c.Bool(sortedFlag.Name) {
		ambiguous = wordlist.SortedUnique(ambiguous)
		proper = wordlist.SortedUnique(proper)
	}

	if err := wordlist.Write(ambiguousPath, ambiguous); err != nil {
		return fmt.Errorf("writing ambiguous output: %w", err)
	}
	if err := wordlist.Write(properPath, proper); err != nil {
		return fmt.Errorf("writing proper output: %w", err)
	}

	slog.Info("classified",
		"input", input,
		"words", len(words),
		"ambiguous", len(ambiguous),
		"proper", len(proper),
		"frequency", scorer.FrequencyActive())
	return nil
}

func applyClassifyFlags(c *urfave.Context, cfg *config.Config) {
	if c.IsSet(useFrequencyFlag.Name) {
		cfg.UseFrequency = c.Bool(useFrequencyFlag.Name)
	}
	if v := c.String(frequencySourceFlag.Name); v != "" {
		cfg.FrequencySource = v
	}
	if v := c.String(commonWordsFlag.Name); v != "" {
		cfg.CommonWordsPath = v
	}
	if v := c.String(properWordsFlag.Name); v != "" {
		cfg.ProperWordsPath = v
	}
	if v := c.String(unresolvedFlag.Name); v != "" {
		cfg.UnresolvedBucket = v
	}
}

// newScorer builds the scorer from config. A frequency source that cannot be opened
// is logged and the scorer runs with the signal neutralized.
func newScorer(cfg *config.Config) (*classifier.Scorer, func(), error) {
	opts := []classifier.Option{
		classifier.WithUnresolvedBucket(classifier.Outcome(cfg.UnresolvedBucket)),
		classifier.WithFrequencyEnabled(cfg.UseFrequency),
	}

	if cfg.CommonWordsPath != "" {
		s, err := classifier.LoadWordSet(cfg.CommonWordsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("loading common words: %w", err)
		}
		opts = append(opts, classifier.WithCommonWords(s))
	}
	if cfg.ProperWordsPath != "" {
		s, err := classifier.LoadWordSet(cfg.ProperWordsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("loading proper words: %w", err)
		}
		opts = append(opts, classifier.WithProperWords(s))
	}

	closer := func() {}
	if cfg.UseFrequency {
		p, err := freq.Open(cfg.FrequencySource)
		if err != nil {
			slog.Warn("continuing without frequency signal", "error", err)
		} else {
			opts = append(opts, classifier.WithFrequency(p))
			closer = func() {
				if err := p.Close(); err != nil {
					slog.Debug("error closing frequency source", "error", err)
				}
			}
		}
	}

	scorer, err := classifier.New(opts...)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("creating scorer: %w", err)
	}
	return scorer, closer, nil
}

func explain(c *urfave.Context, scorer *classifier.Scorer, words []string, format string) error {
	type explained struct {
		classifier.Result `yaml:",inline"`
		Bucket            classifier.Outcome `json:"bucket" yaml:"bucket"`
	}
	out := make([]explained, 0, len(words))
	for _, w := range words {
		res, err := scorer.Classify(w)
		if err != nil {
			continue
		}
		out = append(out, explained{Result: res, Bucket: scorer.Bucket(res)})
	}
	if err := encode(c.App.Writer, format, out); err != nil {
		return fmt.Errorf("encoding explanation: %w", err)
	}
	return nil
}
