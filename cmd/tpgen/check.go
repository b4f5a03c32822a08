package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"tpgen/internal/diag"
	"tpgen/internal/loader"
	"tpgen/internal/schema"
)

var checkCmd = &cobra.Command{
	Use:   "check [schema]",
	Short: "Validate a schema without writing outputs",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := resolveProjectConfig(cmd.Context(), configPath, envconfig.OsLookuper(), nil)
	if err != nil {
		return err
	}
	path, err := schemaPath(cfg, args)
	if err != nil {
		return err
	}

	providers, bag, err := loadSchema(cmd, path)
	if bag == nil || (err != nil && !errors.Is(err, loader.ErrInvalid)) {
		return err
	}
	if !quiet(cmd) {
		printCheckSummary(cmd, path, providers, bag)
	}
	return err
}

func printCheckSummary(cmd *cobra.Command, path string, providers []schema.Provider, bag *diag.Bag) {
	errs, warns := bag.Count(diag.SevError), bag.Count(diag.SevWarning)
	status := color.GreenString("ok")
	if errs > 0 {
		status = color.RedString("failed")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d providers, %d functions, %d errors, %d warnings\n",
		status, path, len(providers), schema.CountInstances(providers), errs, warns)
}
