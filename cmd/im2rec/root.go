package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag, logLevelFlag, logFormatFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag)

	rootCmd := &cobra.Command{
		Use:   "im2rec <image_list> <image_root_dir> <output> [key=value ...]",
		Short: "Pack an image list into a RecordIO container",
		Long: `Pack the images named by an image list into a RecordIO container.

Every image is decoded and re-encoded with the chosen encoding and quality,
even when resize <= 0 keeps its size. Only unchanged=1 stores the source
bytes as they are.

Options are given as key=value pairs after the three paths:
  color=1          -1 keep channels, 0 gray, 1 color
  resize=-1        letterbox into a resize x resize square; <= 0 keeps the size
                   but still re-encodes
  label_width=1    number of labels per list line
  nsplit=1 part=0  pack only partition part of nsplit
  center_crop=0    crop to the centered square before resizing
  quality=100      jpeg quality 1-100, png compression 0-9
  encoding=.jpg    .jpg or .png
  inter_method=9   0-4 fixed, 9 auto, 10 random
  unchanged=0      store the source bytes as they are
  seed=            seed for random interpolation
  index=1          write an offset index next to the container
  manifest=        SQLite manifest path
  progress=1       show a progress bar on a terminal`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 {
				return cmd.Help()
			}
			return runPack(cmd, ctx, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format (console, json)")

	rootCmd.AddCommand(newMklistCommand(ctx))
	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
