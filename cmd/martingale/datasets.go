package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/martingale-lab/internal/datasource"
)

func newDatasetsCmd() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List known team-season datasets by league",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if group == "" {
				group = cfg.Data.Group
			}

			ids := datasource.Datasets(group)
			byLeague := make(map[datasource.League][]string)
			for _, id := range ids {
				league := datasource.LeagueOf(id)
				byLeague[league] = append(byLeague[league], id)
			}
			for _, league := range datasource.Leagues {
				if len(byLeague[league]) == 0 {
					continue
				}
				fmt.Fprintf(out, "%s (%s): %s\n", league, league.Color(), strings.Join(byLeague[league], " "))
			}

			csv := datasource.NewCSVSource(cfg.Data.Directory, log)
			present := 0
			for _, id := range ids {
				if _, err := os.Stat(csv.Path(id)); err == nil {
					present++
				}
			}
			fmt.Fprintf(out, "%d of %d season files present in %s\n", present, len(ids), cfg.Data.Directory)
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "Dataset group: AL21, NL21, AL19, NL19 or ALL")
	return cmd
}
