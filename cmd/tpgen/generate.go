package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"tpgen/internal/bindgen"
	"tpgen/internal/observ"
	"tpgen/internal/pipeline"
	"tpgen/internal/trace"
)

var generateCmd = &cobra.Command{
	Use:   "generate [schema]",
	Short: "Generate the tracepoint interface header, implementation and allowlist",
	Long: `Generate renders one C wrapper per event instance of the schema.
Outputs are written through temporary files and renamed into place together.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("header", "", "interface header output path (default "+defaultHeader+")")
	generateCmd.Flags().String("impl", "", "interface implementation output path (default "+defaultImpl+")")
	generateCmd.Flags().String("tracepoint-header", "", "tracepoint provider header included by the implementation")
	generateCmd.Flags().String("header-include", "", "include path for the interface header (default: --header)")
	generateCmd.Flags().String("allowlist", "", "write the function allowlist to this path")
	generateCmd.Flags().String("allowlist-format", "", "allowlist format (list|version-script)")
	generateCmd.Flags().String("stamp", "", "generation stamp path; unchanged passes are skipped")
	generateCmd.Flags().Bool("force", false, "ignore the stamp and rewrite every output")
	generateCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "generate", 0)
	ctx = trace.WithSpan(ctx, span)
	cmd.SetContext(ctx)
	defer span.End("")

	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := resolveProjectConfig(ctx, configPath, envconfig.OsLookuper(), cmd.Flags())
	if err != nil {
		return err
	}
	path, err := schemaPath(cfg, args)
	if err != nil {
		return err
	}
	if cfg.Output.TracepointHeader == "" {
		return fmt.Errorf("missing tracepoint provider header: set --tracepoint-header or [output].tracepoint_header in %s", configFileName)
	}
	format, err := bindgen.ParseFormat(cfg.Output.AllowlistFormat)
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	idx := timer.Begin("load")
	providers, _, err := loadSchema(cmd, path)
	timer.End(idx, path)
	if err != nil {
		dumpTraceRing(cmd)
		return err
	}

	req := &pipeline.Request{
		Providers:        providers,
		HeaderPath:       cfg.Output.Header,
		ImplPath:         cfg.Output.Impl,
		HeaderInclude:    cfg.Output.HeaderInclude,
		TracepointHeader: cfg.Output.TracepointHeader,
		AllowlistPath:    cfg.Output.Allowlist,
		AllowlistFormat:  format,
		StampPath:        cfg.Output.Stamp,
		Force:            force,
	}
	var res *pipeline.Result
	if mode.enabled(cmd.OutOrStdout(), quiet(cmd)) {
		res, err = runGenerateWithUI(ctx, cmd.OutOrStdout(), path, req)
	} else {
		res, err = pipeline.Generate(ctx, req)
	}
	if err != nil {
		dumpTraceRing(cmd)
		return err
	}
	recordStageTimings(timer, res.Timings)

	out := cmd.OutOrStdout()
	if !quiet(cmd) {
		if res.Skipped {
			fmt.Fprintf(out, "%s %d functions, outputs unchanged\n", color.CyanString("up to date"), len(res.Functions))
		} else {
			fmt.Fprintf(out, "%s %d functions -> %s\n", color.GreenString("generated"), len(res.Functions), strings.Join(res.Written, ", "))
		}
	}
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		printTimings(out, timer)
	}
	return nil
}
