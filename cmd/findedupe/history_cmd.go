package main

import (
	"fmt"
	"strconv"

	"github.com/Nomadcxx/findedupe/internal/activity"
	"github.com/Nomadcxx/findedupe/internal/paths"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent exclusions and plans recorded by scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := paths.AppDir()
			if err != nil {
				return err
			}
			history, err := activity.NewLogger(dir)
			if err != nil {
				return err
			}
			defer history.Close()

			entries, err := history.RecentEntries(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No activity recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					string(e.Action),
					historyTarget(e),
					historyDetail(e),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Time", "Action", "Target", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "number of entries to show")
	return cmd
}

func historyTarget(e activity.Entry) string {
	switch {
	case e.Keeper != "":
		return e.Keeper
	case e.Path != "":
		return e.Path
	default:
		return e.Title
	}
}

func historyDetail(e activity.Entry) string {
	switch e.Action {
	case activity.ActionExcluded:
		if e.Rule != "" {
			return e.Reason + " (" + e.Rule + ")"
		}
		return e.Reason
	case activity.ActionPlanned:
		return strconv.Itoa(e.Items) + " to delete, " + formatBytes(e.Bytes) + ", " + e.Mode
	default:
		return strconv.Itoa(e.Items) + " groups, " + e.Mode
	}
}
