package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/zaremba/pkg/config"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and scaffold configuration",
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default values",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInit(output, force)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "config.yaml", "destination file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func runConfigInit(output string, force bool) error {
	if !force {
		_, err := os.Stat(output)
		if err == nil {
			return fmt.Errorf("%s already exists; use --force to overwrite", output)
		}
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return err
	}

	dir := filepath.Dir(output)
	if dir != "." {
		err = os.MkdirAll(dir, 0o750)
		if err != nil {
			return err
		}
	}

	err = os.WriteFile(output, data, 0o600)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "wrote %s\n", output)

	return nil
}

func newConfigShowCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}

			os.Stdout.Write(data)

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file path")

	return cmd
}
