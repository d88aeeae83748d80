package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/vk/orchid/internal/executor"
)

// renderReport renders the final run report: one row per module with its
// terminal state, followed by the ordered error sequence and the overall
// status.
func renderReport(report *executor.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Module", "Type", "State", "Detail"})

	for _, result := range report.Results {
		name := result.RuntimeName
		if result.Preflight {
			name += " (preflight)"
		}
		tw.AppendRow(table.Row{name, result.TypeName, result.State.String(), result.Error})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
		{Number: 4, WidthMax: 60},
	})

	var b strings.Builder
	b.WriteString(tw.Render())
	b.WriteString("\n")

	if len(report.Errors) > 0 {
		fmt.Fprintf(&b, "\n%d error(s) recorded:\n", len(report.Errors))
		for i, moduleErr := range report.Errors {
			fmt.Fprintf(&b, "  %d: %s\n", i+1, moduleErr.Error())
		}
	}

	fmt.Fprintf(&b, "\nRun %s finished: %s", report.RunID, report.Status)
	return b.String()
}
