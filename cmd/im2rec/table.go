package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"im2rec/internal/pipeline"
	"im2rec/internal/stats"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

var counts = message.NewPrinter(language.English)

func formatCount[T int | int64 | uint64](n T) string {
	return counts.Sprintf("%d", n)
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderSummary renders the run result followed by the pixel statistics.
func renderSummary(res pipeline.Result) string {
	rows := [][]string{
		{"Run ID", res.RunID},
		{"Output", res.OutputPath},
	}
	if res.IndexPath != "" {
		rows = append(rows, []string{"Index", res.IndexPath})
	}
	if res.NSplit > 1 {
		rows = append(rows, []string{"Partition", fmt.Sprintf("%d of %d", res.Part, res.NSplit)})
	}
	rows = append(rows,
		[]string{"List bytes", fmt.Sprintf("%s-%s", formatCount(res.SpanBegin), formatCount(res.SpanEnd))},
		[]string{"Records", formatCount(res.Records)},
		[]string{"Skipped lines", formatCount(res.Skipped)},
		[]string{"Duplicate ids", formatCount(res.Duplicates)},
		[]string{"Split records", formatCount(res.Splits)},
		[]string{"Size", humanize.Bytes(uint64(max(res.Bytes, 0)))},
		[]string{"Elapsed", res.Elapsed.Round(time.Millisecond).String()},
	)
	if res.Canceled {
		rows = append(rows, []string{"Status", "canceled"})
	}
	summary := renderTable([]string{"Run", ""}, rows, []columnAlignment{alignLeft, alignLeft})

	scopes := append([]stats.Scope{res.Stats.Global}, res.Stats.Channels...)
	if res.Stats.Global.Count == 0 {
		return summary
	}
	statRows := make([][]string, 0, len(scopes))
	for _, s := range scopes {
		stdev := "n/a"
		if s.Ready {
			stdev = strconv.FormatFloat(s.StdDev, 'f', 3, 64)
		}
		statRows = append(statRows, []string{s.Name, formatCount(s.Count), strconv.FormatFloat(s.Mean, 'f', 3, 64), stdev})
	}
	return summary + "\n" + renderTable(
		[]string{"Scope", "Samples", "Mean", "Stdev"},
		statRows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	)
}
