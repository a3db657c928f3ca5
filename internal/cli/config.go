package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mazeroute/pkg/config"
	errs "github.com/matzehuels/mazeroute/pkg/errors"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

// configShowCommand prints the effective configuration.
func (c *CLI) configShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseConfigFormat(format)
			if err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), f, c.cfg)
		},
	}

	cmd.Flags().StringVar(&format, "format", "toml", "output format: toml or yaml")
	return cmd
}

// configPathCommand prints the config file in use.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolvedConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// configInitCommand writes the defaults to the config file.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolvedConfigPath()
			if err != nil {
				return err
			}
			if err := writeDefaultConfig(path, force); err != nil {
				return err
			}
			printSuccess("Wrote config")
			printFile(path)
			printNextStep("Edit it, then check", "mazeroute config show")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) resolvedConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

func parseConfigFormat(s string) (config.Format, error) {
	switch s {
	case "toml":
		return config.FormatTOML, nil
	case "yaml", "yml":
		return config.FormatYAML, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidFormat, "unknown config format %q (want toml or yaml)", s)
	}
}

// writeDefaultConfig writes config.Default to path in the format its
// extension selects. An existing file is kept unless force is set.
func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errs.New(errs.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
	}
	format := config.FormatTOML
	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		format = config.FormatYAML
	}

	cfg := config.Default()
	var buf bytes.Buffer
	if err := config.Encode(&buf, format, cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
