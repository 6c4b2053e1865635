package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"im2rec/internal/mklist"
)

func newMklistCommand(ctx *commandContext) *cobra.Command {
	opts := mklist.DefaultOptions()
	var seed uint64

	cmd := &cobra.Command{
		Use:   "mklist <root> <prefix>",
		Short: "Generate image lists from a directory tree",
		Long: `Generate image lists from a directory tree.

Writes <prefix>.lst, or <prefix>[_<chunk>][_train|_val|_test].lst when the
tree is chunked or split. With --recursive every directory holding images
gets its own label. --query-dir also writes <prefix>_query.lst, pairing the
id of every image found again under that directory with the number in its
"<name>-<n>.<ext>" file name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.packConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seed
			}

			lists, err := mklist.Make(cmd.Context(), args[0], args[1], opts, logger)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(lists))
			for _, list := range lists {
				rows = append(rows, []string{list.Path, formatCount(list.Items)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"List", "Images"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opts.Exts, "exts", mklist.DefaultExts, "File extensions to list")
	cmd.Flags().IntVar(&opts.Chunks, "chunks", opts.Chunks, "Number of chunks to split the list into")
	cmd.Flags().Float64Var(&opts.TrainRatio, "train-ratio", opts.TrainRatio, "Fraction of each chunk used for training")
	cmd.Flags().Float64Var(&opts.TestRatio, "test-ratio", opts.TestRatio, "Fraction of each chunk used for testing")
	cmd.Flags().BoolVar(&opts.Recursive, "recursive", opts.Recursive, "Walk subdirectories and label images by directory")
	cmd.Flags().BoolVar(&opts.Shuffle, "shuffle", opts.Shuffle, "Shuffle images before chunking")
	cmd.Flags().Uint64Var(&seed, "seed", mklist.DefaultSeed, "Shuffle seed")
	cmd.Flags().StringVar(&opts.QueryDir, "query-dir", "", "Directory of query images mirroring the root (usually <root>/../query)")
	return cmd
}
