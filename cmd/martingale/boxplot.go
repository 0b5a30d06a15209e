package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/martingale-lab/internal/backtest"
	"github.com/yourusername/martingale-lab/internal/models"
)

func newBoxPlotCmd() *cobra.Command {
	opts := &sweepOptions{}
	var x, y string
	cmd := &cobra.Command{
		Use:   "boxplot",
		Short: "Run a sweep and describe one column's distribution per level of another",
		RunE: func(cmd *cobra.Command, args []string) error {
			applySweepOverrides(cmd, cfg, opts)
			if !cmd.Flags().Changed("y") && cfg.Sweep.Mode == string(models.SweepModeSeason) {
				y = models.ColumnTestStat
			}

			svc, db, err := newSweepService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB(db)

			engineConfig, err := backtest.FromConfig(cfg)
			if err != nil {
				return err
			}
			rows, err := runSweepForRows(cmd.Context(), svc, engineConfig)
			if err != nil {
				return err
			}
			stats, err := backtest.BoxPlot(rows, x, y)
			if err != nil {
				return err
			}

			table := backtest.BoxPlotTable(x, y, stats)
			fmt.Fprint(cmd.OutOrStdout(), renderTable(table))
			_, err = newExporter(engineConfig).Export(fmt.Sprintf("boxplot_%s_%s", y, x), table)
			return err
		},
	}
	addSweepFlags(cmd, opts)
	cmd.Flags().StringVar(&x, "x", models.ColumnBaseBet, "Grouping column")
	cmd.Flags().StringVar(&y, "y", models.ColumnEarnings, "Value column")
	return cmd
}

// renderTable formats a table as aligned plain text
func renderTable(table backtest.Table) string {
	widths := make([]int, len(table.Columns))
	for i, column := range table.Columns {
		widths[i] = len(column)
	}
	for _, row := range table.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var builder strings.Builder
	builder.WriteString(table.Title + "\n")
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				builder.WriteString("  ")
			}
			builder.WriteString(fmt.Sprintf("%*s", widths[i], cell))
		}
		builder.WriteString("\n")
	}
	writeRow(table.Columns)
	for _, row := range table.Rows {
		writeRow(row)
	}
	return builder.String()
}
