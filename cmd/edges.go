package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var edgesCmd = &cobra.Command{
	Use:   "edges [station]",
	Short: "Lists edges, optionally only those leaving a station",
	Args:  cobra.MaximumNArgs(1),
	RunE:  edges,
}

func init() {
	rootCmd.AddCommand(edgesCmd)
}

func edges(cmd *cobra.Command, args []string) error {
	g, err := LoadGraph()
	if err != nil {
		return err
	}

	list := g.Edges()
	if len(args) == 1 {
		st, found := g.StationByName(args[0])
		if !found {
			return fmt.Errorf("unknown station '%s'", args[0])
		}
		list = g.EdgesFrom(st)
	}

	for _, e := range list {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s", e.From.Name, e.To.Name)
		for _, pair := range e.Times {
			fmt.Fprintf(cmd.OutOrStdout(), " %s-%s", clock(pair.Departure()), clock(pair.Arrival()))
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

// Formats an HHMM encoded time for display.
func clock(hhmm int) string {
	return fmt.Sprintf("%02d:%02d", hhmm/100, hhmm%100)
}
