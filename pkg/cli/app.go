package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mchmarny/ambiclass/pkg/config"
	"github.com/mchmarny/ambiclass/pkg/evaluation"
	"github.com/mchmarny/ambiclass/pkg/logging"
	urfave "github.com/urfave/cli/v2"
)

const (
	appName      = "ambiclass"
	appConfigKey = "app-config"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	logLevelFlag = &urfave.StringFlag{
		Name:  "log-level",
		Usage: "Log level [debug, info, warn, error]",
		Value: "info",
	}

	configFileFlag = &urfave.StringFlag{
		Name:    "config",
		Usage:   "Path to a YAML config file (optional)",
		EnvVars: []string{"AMBICLASS_CONFIG"},
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: evaluation.FormatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	initLogging(logLevelFlag.Value)

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	ConfigPath string
	Format     string
	Config     *config.Config
}

func getConfig(c *urfave.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.App {
	return &urfave.App{
		Name:                 appName,
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "Split words into likely ambiguous (common) and likely non-ambiguous (proper) nouns",
		Flags: []urfave.Flag{
			debugFlag,
			logLevelFlag,
			configFileFlag,
			formatFlag,
		},
		Commands: []*urfave.Command{
			classifyCmd,
			evaluateCmd,
			configCmd,
		},
		Before: func(c *urfave.Context) error {
			level := c.String(logLevelFlag.Name)
			if c.Bool(debugFlag.Name) {
				level = "debug"
			}
			initLogging(level)

			format := evaluation.FormatJSON
			if f := c.String(formatFlag.Name); f == evaluation.FormatYAML || f == "yml" {
				format = evaluation.FormatYAML
			}

			path := c.String(configFileFlag.Name)
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg.ApplyEnv(os.LookupEnv)
			slog.Debug("config", "path", path, "use_frequency", cfg.UseFrequency, "frequency_source", cfg.FrequencySource)

			c.App.Metadata[appConfigKey] = &appConfig{
				ConfigPath: path,
				Format:     format,
				Config:     cfg,
			}
			return nil
		},
	}
}

func initLogging(level string) {
	logging.SetDefaultCLILogger(level)
}

func encode(w io.Writer, format string, v any) error {
	return evaluation.Encode(w, format, v)
}
