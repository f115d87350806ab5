package classifier

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the comparison key for a token: trimmed, NFKC normalized and case folded.
// The scorer and the evaluator both key on this form.
func Normalize(token string) string {
	token = strings.TrimSpace(strings.TrimPrefix(token, "\ufeff"))
	if token == "" {
		return ""
	}
	// cases.Caser is stateful, so a fresh one per call.
	return cases.Fold().String(norm.NFKC.String(token))
}

// keyLength counts runes of the comparison key, so every spelling that folds to
// the same key gets the same length signal.
func keyLength(normalized string) int {
	return utf8.RuneCountInString(normalized)
}
