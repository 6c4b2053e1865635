package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"im2rec/internal/faults"
	"im2rec/internal/logging"
	"im2rec/internal/pipeline"
	"im2rec/internal/preflight"
)

// runPack handles "im2rec <image_list> <image_root_dir> <output> [key=value ...]".
func runPack(cmd *cobra.Command, ctx *commandContext, args []string) error {
	cfg, err := ctx.packConfig()
	if err != nil {
		return err
	}
	warnings, err := cfg.ApplyOptions(args[3:])
	if err != nil {
		return err
	}

	logger, err := ctx.logger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	for _, warning := range warnings {
		logging.WarnWithContext(logger, warning, "option_ignored",
			logging.String(logging.FieldImpact, "option has no effect"))
	}
	if ctx.configPath != "" {
		logger.Debug("configuration loaded", logging.String("config", ctx.configPath))
	}

	job := pipeline.Job{
		ListPath:     args[0],
		RootDir:      args[1],
		OutputPath:   args[2],
		Pack:         cfg.Pack,
		ManifestPath: cfg.Paths.Manifest,
	}
	output := pipeline.PartitionPath(job.OutputPath, cfg.Pack.NSplit, cfg.Pack.Part)
	targets := preflight.Targets{
		ListPath:     job.ListPath,
		RootDir:      job.RootDir,
		OutputPath:   output,
		ManifestPath: job.ManifestPath,
	}
	if cfg.Pack.Index {
		targets.IndexPath = pipeline.IndexPath(output)
	}
	if err := preflight.Err(preflight.RunAll(targets)); err != nil {
		return err
	}

	var opts []pipeline.Option
	if cfg.Pack.Progress && logging.IsTerminal(cmd.ErrOrStderr()) {
		opts = append(opts, pipeline.WithProgress(cmd.ErrOrStderr()))
	}
	driver, err := pipeline.New(job, logger, opts...)
	if err != nil {
		return err
	}

	runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, runErr := driver.Run(runCtx)
	if res.Records > 0 || runErr == nil {
		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(res))
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("packing failed", logging.Error(runErr), logging.String("error_kind", faults.Kind(runErr)))
	}
	return runErr
}
