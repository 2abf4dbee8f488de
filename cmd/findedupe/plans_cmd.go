package main

import (
	"fmt"
	"strconv"

	"github.com/Nomadcxx/findedupe/internal/plans"
	"github.com/spf13/cobra"
)

var plansDir string

func newPlansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Review or clear plans saved by 'scan --save'",
	}

	cmd.PersistentFlags().StringVar(&plansDir, "dir", "", "plans directory (default: ~/.config/findedupe/plans)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the last saved plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := plans.NewStore(nil, plansDir)
			if err != nil {
				return err
			}
			report, err := store.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report == nil {
				fmt.Fprintln(out, "No saved plans (run 'findedupe scan <file> --save').")
				return nil
			}

			fmt.Fprintf(out, "Created: %s\nCommand: %s\nMode:    %s\n\n",
				report.CreatedAt.Local().Format("2006-01-02 15:04:05"), report.Command, report.Mode)

			rows := make([][]string, 0, len(report.Plans))
			for _, p := range report.Plans {
				rows = append(rows, []string{
					p.PlanID.String(),
					p.Kind.String(),
					p.Keeper.ItemID.String(),
					strconv.Itoa(p.ItemCount()),
					formatBytes(p.TotalBytes),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Plan", "Kind", "Keeper", "Delete", "Reclaim"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight}))
			fmt.Fprintf(out, "Groups: %d  Files to delete: %d  Reclaimable: %s\n",
				report.Summary.TotalGroups, report.Summary.FilesToDelete, formatBytes(report.Summary.SpaceReclaimable))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the saved plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := plans.NewStore(nil, plansDir)
			if err != nil {
				return err
			}
			if err := store.Delete(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved plans cleared.")
			return nil
		},
	})

	return cmd
}
