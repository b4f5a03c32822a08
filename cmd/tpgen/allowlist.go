package main

import (
	"fmt"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"tpgen/internal/backend/cgen"
	"tpgen/internal/bindgen"
)

var allowlistCmd = &cobra.Command{
	Use:   "allowlist [schema]",
	Short: "Print the generated function names",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAllowlist,
}

func init() {
	allowlistCmd.Flags().String("format", "", "output format (list|version-script)")
}

func runAllowlist(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := resolveProjectConfig(cmd.Context(), configPath, envconfig.OsLookuper(), cmd.Flags())
	if err != nil {
		return err
	}
	path, err := schemaPath(cfg, args)
	if err != nil {
		return err
	}
	format, err := bindgen.ParseFormat(cfg.Output.AllowlistFormat)
	if err != nil {
		return err
	}

	providers, _, err := loadSchema(cmd, path)
	if err != nil {
		dumpTraceRing(cmd)
		return err
	}
	builder := cgen.AllowlistInterface(cmd.Context(), providers, nil)
	return builder.Render(cmd.OutOrStdout(), format)
}
