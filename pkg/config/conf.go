package config

import (
	"io"
	"os"
	"strings"

	"github.com/mchmarny/ambiclass/pkg/classifier"
	"github.com/mchmarny/ambiclass/pkg/wordlist"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// UseFrequencyEnvVar toggles the frequency signal.
	UseFrequencyEnvVar = "AMBICLASS_USE_WORDFREQ"
	// FrequencySourceEnvVar points at a frequency table or database.
	FrequencySourceEnvVar = "AMBICLASS_FREQUENCY_SOURCE"

	fileMode = 0600
)

var truthy = map[string]bool{"1": true, "true": true, "yes": true, "on": true}

// Config represents the resolved classifier configuration.
type Config struct {
	UseFrequency     bool   `yaml:"useFrequency" json:"use_frequency"`
	FrequencySource  string `yaml:"frequencySource,omitempty" json:"frequency_source,omitempty"`
	CommonWordsPath  string `yaml:"commonWordsPath,omitempty" json:"common_words_path,omitempty"`
	ProperWordsPath  string `yaml:"properWordsPath,omitempty" json:"proper_words_path,omitempty"`
	UnresolvedBucket string `yaml:"unresolvedBucket" json:"unresolved_bucket"`
}

// Default returns the built-in configuration: frequency off, bundled words,
// unresolved tokens treated as non_ambiguous.
func Default() *Config {
	return &Config{
		UnresolvedBucket: string(classifier.NonAmbiguous),
	}
}

// ParseToggle reports whether s is one of 1, true, yes, on (case-insensitive).
// Anything else, including an empty string, is false.
func ParseToggle(s string) bool {
	return truthy[strings.ToLower(strings.TrimSpace(s))]
}

// Load reads the config file at path over the defaults. An empty path yields defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	f, err := wordlist.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "config file")
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file: %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file: %s", path)
	}
	return c, nil
}

// ApplyEnv overlays environment values. A set-but-falsy toggle disables the signal,
// an unset one leaves the file value alone.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(UseFrequencyEnvVar); ok {
		c.UseFrequency = ParseToggle(v)
	}
	if v, ok := lookup(FrequencySourceEnvVar); ok && strings.TrimSpace(v) != "" {
		c.FrequencySource = strings.TrimSpace(v)
	}
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch classifier.Outcome(c.UnresolvedBucket) {
	case "":
		c.UnresolvedBucket = string(classifier.NonAmbiguous)
	case classifier.Ambiguous, classifier.NonAmbiguous:
	default:
		return errors.Errorf("unresolvedBucket must be %s or %s, got %q",
			classifier.Ambiguous, classifier.NonAmbiguous, c.UnresolvedBucket)
	}
	return nil
}

// Save writes the config as YAML.
func Save(path string, c *Config) error {
	if path == "" {
		return errors.New("config path required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := wordlist.EnsureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", path)
	}
	return nil
}
