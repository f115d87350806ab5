package evaluation

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/ambiclass/pkg/wordlist"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"

	reportFileMode = 0644
)

// Report is the serializable view of Metrics.
type Report struct {
	TotalWords            int   `json:"total_words" yaml:"totalWords"`
	TotalAmbiguous        int   `json:"total_ambiguous" yaml:"totalAmbiguous"`
	TotalNonAmbiguous     int   `json:"total_non_ambiguous" yaml:"totalNonAmbiguous"`
	PredictedAmbiguous    int   `json:"predicted_ambiguous" yaml:"predictedAmbiguous"`
	PredictedNonAmbiguous int   `json:"predicted_non_ambiguous" yaml:"predictedNonAmbiguous"`
	TruePositive          int   `json:"true_positive" yaml:"truePositive"`
	TrueNegative          int   `json:"true_negative" yaml:"trueNegative"`
	FalsePositive         int   `json:"false_positive" yaml:"falsePositive"`
	FalseNegative         int   `json:"false_negative" yaml:"falseNegative"`
	Accuracy              Ratio `json:"accuracy" yaml:"accuracy"`
	Precision             Ratio `json:"precision" yaml:"precision"`
	Recall                Ratio `json:"recall" yaml:"recall"`
	F1                    Ratio `json:"f1" yaml:"f1"`
	MissingCount          int   `json:"missing_words_count" yaml:"missingWordsCount"`
	UnscoredAmbiguous     int   `json:"extra_ambiguous_predictions_count" yaml:"extraAmbiguousPredictionsCount"`
	UnscoredNonAmbiguous  int   `json:"extra_non_ambiguous_predictions_count" yaml:"extraNonAmbiguousPredictionsCount"`

	Mismatches []Mismatch     `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
	Details    *ReportDetails `json:"details,omitempty" yaml:"details,omitempty"`
}

// ReportDetails carries the word lists behind the counts.
type ReportDetails struct {
	MissingWords              []string `json:"missing_words" yaml:"missingWords"`
	FalsePositiveWords        []string `json:"false_positive_words" yaml:"falsePositiveWords"`
	FalseNegativeWords        []string `json:"false_negative_words" yaml:"falseNegativeWords"`
	ExtraAmbiguousPredictions []string `json:"extra_ambiguous_predictions" yaml:"extraAmbiguousPredictions"`
	ExtraNonAmbiguous         []string `json:"extra_non_ambiguous_predictions" yaml:"extraNonAmbiguousPredictions"`
}

// Report builds the serializable view. Without details only counts, ratios and the
// mismatch sample are included.
func (m *Metrics) Report(includeDetails bool) Report {
	r := Report{
		TotalWords:            m.GoldWords,
		TotalAmbiguous:        m.GoldAmbiguous,
		TotalNonAmbiguous:     m.GoldNonAmbiguous,
		PredictedAmbiguous:    m.PredictedAmbiguous,
		PredictedNonAmbiguous: m.PredictedNonAmbiguous,
		TruePositive:          m.TruePositive,
		TrueNegative:          m.TrueNegative,
		FalsePositive:         m.FalsePositive,
		FalseNegative:         m.FalseNegative,
		Accuracy:              m.Accuracy,
		Precision:             m.Precision,
		Recall:                m.Recall,
		F1:                    m.F1,
		MissingCount:          len(m.Missing),
		UnscoredAmbiguous:     len(m.UnscoredAmbiguous),
		UnscoredNonAmbiguous:  len(m.UnscoredNonAmbiguous),
		Mismatches:            m.Mismatches,
	}
	if includeDetails {
		r.Details = &ReportDetails{
			MissingWords:              m.Missing,
			FalsePositiveWords:        m.FalsePositives,
			FalseNegativeWords:        m.FalseNegatives,
			ExtraAmbiguousPredictions: m.UnscoredAmbiguous,
			ExtraNonAmbiguous:         m.UnscoredNonAmbiguous,
		}
	}
	return r
}

// FormatForPath picks YAML for .yaml/.yml paths and JSON otherwise.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode writes v as indented JSON or YAML.
func Encode(w io.Writer, format string, v any) error {
	if format == FormatYAML {
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		if err := e.Encode(v); err != nil {
			return errors.Wrap(err, "failed to encode yaml")
		}
		return e.Close()
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode json")
	}
	return nil
}

// WriteReport writes the report to path, creating parent directories.
func WriteReport(path string, r Report) error {
	if path == "" {
		return errors.New("report path required")
	}
	if err := wordlist.EnsureDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, reportFileMode)
	if err != nil {
		return errors.Wrapf(err, "failed to create report: %s", path)
	}
	if err := Encode(f, FormatForPath(path), r); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write report: %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "failed to close report: %s", path)
	}
	return nil
}
