package manifest

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"dataset-manifest/core/dataset"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderReport formats unmatched records as a right aligned Index/ImageId
// table without borders.
func RenderReport(records []dataset.Record) string {
	style := table.StyleDefault
	style.Options = table.Options{SeparateColumns: true}
	style.Box.MiddleVertical = " "
	style.Box.PaddingLeft = ""
	style.Box.PaddingRight = ""
	style.Format.Header = text.FormatDefault

	tw := table.NewWriter()
	tw.SetStyle(style)
	tw.AppendHeader(table.Row{"Index", "ImageId"})
	for _, r := range records {
		tw.AppendRow(table.Row{strconv.Itoa(r.Index), strconv.FormatInt(r.ImageID, 10)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignRight},
	})
	return tw.Render() + "\n"
}

// WriteReport stores the unmatched report as the named document of sink.
func WriteReport(ctx context.Context, sink Sink, name string, records []dataset.Record) (err error) {
	w, err := sink.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to finish %s: %w", name, cerr)
		}
	}()

	if _, err := io.WriteString(w, RenderReport(records)); err != nil {
		abort(w)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
