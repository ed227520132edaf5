package main

import (
	"fmt"
	"os"
	"time"

	"lab-go/internal/app"

	"github.com/spf13/cobra"
)

// todayIn returns today's date in the lab's timezone as YYYY-MM-DD.
func todayIn(a *app.LabApp) string {
	loc, err := a.Config().Location()
	if err != nil {
		loc = time.Local
	}
	return time.Now().In(loc).Format("2006-01-02")
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the state of the room and today's violations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("Dashboard", func(a *app.LabApp) error {
			st, err := a.Dashboard()
			if err != nil {
				return err
			}
			active, err := a.ActiveClass()
			if err != nil {
				return err
			}
			if active == "" {
				active = "-"
			}
			fmt.Printf("Machines:      %d\n", st.TotalMachines)
			fmt.Printf("  working:     %d\n", st.WorkingMachines)
			fmt.Printf("  maintenance: %d\n", st.MaintenanceMachines)
			fmt.Printf("  broken:      %d (%d being repaired)\n", st.BrokenMachines, st.RepairingMachines)
			fmt.Printf("  disabled:    %d\n", st.DisabledMachines)
			fmt.Printf("Seated:        %d (class %s)\n", st.SeatedMachines, active)
			fmt.Printf("Today:         %d violations, %d points\n", st.ViolationCountToday, st.ViolationPointsToday)
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [DIR]",
	Short: "Write the statistics workbook",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		return withApp("ExportStatistics", func(a *app.LabApp) error {
			path, err := a.ExportStatistics(dir)
			if err != nil {
				return err
			}
			fmt.Printf("Exported %s\n", path)
			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all data and restore the initial room",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := confirm(cmd, "Delete every class, student, violation and log entry?"); err != nil {
			return err
		}
		return withApp("Reset", func(a *app.LabApp) error {
			if err := a.Reset(); err != nil {
				return err
			}
			fmt.Println("Lab reset.")
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View the history of commands that changed data",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withApp("History", func(a *app.LabApp) error {
			ops, err := a.History(limit)
			if err != nil {
				return err
			}

			if len(ops) == 0 {
				fmt.Println("No operations recorded.")
				return nil
			}

			for _, op := range ops {
				duration := ""
				if op.FinishedAt != nil {
					duration = op.FinishedAt.Sub(op.StartedAt).Truncate(time.Millisecond).String()
				}
				fmt.Printf("#%d  %-22s  %s  %-8s  %-10s  %s\n",
					op.ID,
					op.Operation,
					op.StartedAt.Local().Format("2006-01-02 15:04:05"),
					op.Status,
					duration,
					op.Parameters,
				)
			}
			return nil
		})
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
}
