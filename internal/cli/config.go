package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/studytree/pkg/config"
)

// defaultConfigFile is written by "config init" without an argument.
const defaultConfigFile = appName + ".toml"

// configCommand creates the config command for visual option files.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and check visual option files",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configCheckCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write the default visual options to a TOML file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			if err := writeDefaultConfig(path, force); err != nil {
				return err
			}
			printSuccess("Wrote default options")
			printFile(path)
			printNextStep("Use them with", fmt.Sprintf("%s render study.pgn --config %s", appName, path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// configCheckCommand creates the "config check" subcommand.
func (c *CLI) configCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a TOML file of visual options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.Load(args[0])
			if err != nil {
				return err
			}
			printSuccess("%s is valid", args[0])
			printKeyValue("Direction", v.Direction)
			printKeyValue("Colors", fmt.Sprintf("%d overrides", len(v.Colors)))
			return nil
		},
	}
}

func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
	}
	if err := config.Default().Write(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
