package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mchmarny/ambiclass/pkg/config"
	urfave "github.com/urfave/cli/v2"
)

var (
	forceFlag = &urfave.BoolFlag{
		Name:  "force",
		Usage: "Overwrite an existing file",
	}

	configCmd = &urfave.Command{
		Name:            "config",
		Usage:           "Inspect or create configuration",
		HideHelpCommand: true,
		Subcommands: []*urfave.Command{
			{
				Name:   "show",
				Usage:  "Print the effective configuration (file, environment, defaults)",
				Action: cmdConfigShow,
			},
			{
				Name:      "init",
				Usage:     "Write a config file with the default settings",
				ArgsUsage: "PATH",
				Flags:     []urfave.Flag{forceFlag},
				Action:    cmdConfigInit,
			},
		},
	}
)

func cmdConfigShow(c *urfave.Context) error {
	app := getConfig(c)
	if err := encode(c.App.Writer, app.Format, app.Config); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

func cmdConfigInit(c *urfave.Context) error {
	if c.NArg() != 1 {
		return errors.New("config init requires PATH")
	}
	path := c.Args().First()

	if _, err := os.Stat(path); err == nil && !c.Bool(forceFlag.Name) {
		return fmt.Errorf("config file already exists: %s (use --%s)", path, forceFlag.Name)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	slog.Info("config written", "path", path)
	return nil
}
