package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"im2rec/internal/faults"
	"im2rec/internal/imagerec"
	"im2rec/internal/imgcodec"
)

func newInspectCommand(_ *commandContext) *cobra.Command {
	var limit, labelWidth int
	var offset int64

	cmd := &cobra.Command{
		Use:         "inspect <container>",
		Short:       "List the records of a RecordIO container",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return faults.Wrap(faults.ErrConfiguration, "inspect", "open", args[0], err)
			}
			defer file.Close()

			reader := imagerec.NewReader(file)
			if offset > 0 {
				if err := reader.Seek(offset); err != nil {
					return faults.Wrap(faults.ErrConfiguration, "inspect", "seek", args[0], err)
				}
			}
			rows, total, payloadBytes, err := inspectRecords(reader, limit, labelWidth)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Offset", "Image ID", "Labels", "Payload", "Format", "Size"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%s records, %s of payload", formatCount(total), humanize.Bytes(uint64(payloadBytes)))
			if total > len(rows) {
				fmt.Fprintf(out, " (showing first %s)", formatCount(len(rows)))
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records to list (0 lists all)")
	cmd.Flags().IntVar(&labelWidth, "label-width", 0, "Require every record to carry this many labels")
	cmd.Flags().Int64Var(&offset, "offset", 0, "Start at this record offset, as listed in the index file")
	return cmd
}

// inspectRecords reads every record, keeping table rows for the first limit
// of them.
func inspectRecords(reader *imagerec.Reader, limit, labelWidth int) ([][]string, int, int64, error) {
	var rows [][]string
	total := 0
	var payloadBytes int64
	for {
		rec, offset, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return rows, total, payloadBytes, nil
		}
		if err != nil {
			return rows, total, payloadBytes, faults.Wrap(faults.ErrDecode, "inspect", "read", "", err)
		}
		if labelWidth > 0 && len(rec.Labels) != labelWidth {
			return rows, total, payloadBytes, faults.Wrap(faults.ErrInvalidEntry, "inspect", "labels",
				fmt.Sprintf("record at offset %d carries %d labels, expected %d", offset, len(rec.Labels), labelWidth), nil)
		}
		total++
		payloadBytes += int64(len(rec.Payload))
		if limit > 0 && len(rows) >= limit {
			continue
		}
		rows = append(rows, []string{
			strconv.FormatInt(offset, 10),
			strconv.FormatUint(rec.ID(), 10),
			formatLabels(rec.Labels),
			humanize.Bytes(uint64(len(rec.Payload))),
			payloadFormat(rec.Payload),
			payloadSize(rec.Payload),
		})
	}
}

func formatLabels(labels []float32) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = strconv.FormatFloat(float64(l), 'g', -1, 32)
	}
	return strings.Join(parts, " ")
}

func payloadFormat(payload []byte) string {
	_, format, err := imgcodec.Config(payload)
	if err != nil {
		return "unknown"
	}
	return format
}

func payloadSize(payload []byte) string {
	cfg, _, err := imgcodec.Config(payload)
	if err != nil {
		return "-"
	}
	return fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
}
