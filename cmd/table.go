package cmd

import (
	"fmt"
	"io"
	"strconv"

	"dataset-manifest/core/reconcile"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderSummary prints one row per partition followed by a totals footer.
func renderSummary(w io.Writer, s *reconcile.Summary) {
	tw := table.NewWriter()
	style := table.StyleRounded
	style.Format.Footer = text.FormatDefault
	tw.SetStyle(style)
	tw.AppendHeader(table.Row{"Partition", "Files", "Skipped", "Written", "Elapsed", "Status"})

	for _, p := range s.Partitions {
		status := "ok"
		if p.Err != nil {
			status = "aborted"
		}
		tw.AppendRow(table.Row{
			p.Key,
			strconv.Itoa(p.Files),
			strconv.Itoa(p.Skipped),
			strconv.Itoa(p.Results),
			p.Elapsed.Round(1e6).String(),
			status,
		})
	}
	tw.AppendFooter(table.Row{
		"total",
		strconv.Itoa(s.Files),
		strconv.Itoa(s.Skipped),
		strconv.Itoa(s.Results),
		s.Elapsed.Round(1e6).String(),
		fmt.Sprintf("%d aborted", len(s.Aborted)),
	})

	configs := make([]table.ColumnConfig, 0, 6)
	for i := 1; i <= 6; i++ {
		align := text.AlignRight
		if i == 1 || i == 6 {
			align = text.AlignLeft
		}
		configs = append(configs, table.ColumnConfig{Number: i, Align: align, AlignHeader: text.AlignLeft, AlignFooter: align})
	}
	tw.SetColumnConfigs(configs)

	fmt.Fprintln(w, tw.Render())
}
