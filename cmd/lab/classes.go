package main

import (
	"errors"
	"fmt"

	"lab-go/internal/app"
	"lab-go/internal/lab"

	"github.com/spf13/cobra"
)

var classCmd = &cobra.Command{
	Use:     "class",
	Aliases: []string{"c"},
	Short:   "Manage classes and rosters",
}

var classListCmd = &cobra.Command{
	Use:   "list",
	Short: "List classes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("ListClasses", func(a *app.LabApp) error {
			classes, err := a.ListClasses()
			if err != nil {
				return err
			}
			active, err := a.ActiveClass()
			if err != nil {
				return err
			}
			for _, c := range classes {
				students, err := a.ListStudents(c.Name)
				if err != nil {
					return err
				}
				marker := " "
				if c.Name == active {
					marker = "*"
				}
				fmt.Printf("%s %-10s  %3d students  %s\n", marker, c.Name, len(students), c.Note)
			}
			return nil
		})
	},
}

var classAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, _ := cmd.Flags().GetString("note")
		return withApp("AddClass", func(a *app.LabApp) error {
			c, err := a.AddClass(lab.ClassInput{Name: args[0], Note: note})
			if err != nil {
				return err
			}
			fmt.Printf("Created class %s\n", c.Name)
			return nil
		})
	},
}

var classEditCmd = &cobra.Command{
	Use:   "edit CLASS",
	Short: "Rename a class or change its note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("UpdateClass", func(a *app.LabApp) error {
			existing, err := a.ResolveClass(args[0])
			if err != nil {
				return err
			}
			in := lab.ClassInput{Name: existing.Name, Note: existing.Note}
			if cmd.Flags().Changed("name") {
				in.Name, _ = cmd.Flags().GetString("name")
			}
			if cmd.Flags().Changed("note") {
				in.Note, _ = cmd.Flags().GetString("note")
			}
			c, err := a.UpdateClass(existing.ID, in)
			if err != nil {
				return err
			}
			fmt.Printf("Updated class %s\n", c.Name)
			return nil
		})
	},
}

var classDeleteCmd = &cobra.Command{
	Use:   "delete CLASS",
	Short: "Delete a class and all of its students",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := confirm(cmd, fmt.Sprintf("Delete class %s and all of its students?", args[0])); err != nil {
			return err
		}
		return withApp("DeleteClass", func(a *app.LabApp) error {
			deleted, err := a.DeleteClass(args[0])
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Printf("No class %s.\n", args[0])
				return nil
			}
			fmt.Printf("Deleted class %s\n", args[0])
			return nil
		})
	},
}

var classActivateCmd = &cobra.Command{
	Use:   "activate CLASS",
	Short: "Seat a class in the lab, vacating every machine first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("Activate", func(a *app.LabApp) error {
			plan, err := a.Activate(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Class %s seated (%s): %d seated, %d without a machine\n",
				plan.Class, plan.Mode, len(plan.Seats), len(plan.Unseated))
			for _, s := range plan.Seats {
				fmt.Printf("  %-5s %s\n", s.MachineID, s.StudentName)
			}
			return nil
		})
	},
}

var classImportCmd = &cobra.Command{
	Use:   "import CLASS FILE.xlsx",
	Short: "Replace a class roster with the first sheet of a workbook",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := confirm(cmd, fmt.Sprintf("Replace every student of %s with %s?", args[0], args[1])); err != nil {
			return err
		}
		return withApp("ImportRoster", func(a *app.LabApp) error {
			res, err := a.ImportRoster(args[1], args[0])
			if errors.Is(err, lab.ErrNoData) {
				return fmt.Errorf("%s has no data rows; nothing was changed", args[1])
			}
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d students into %s (%d rows without a name skipped, %d students replaced)\n",
				res.Imported, res.Class, res.Skipped, res.Replaced)
			return nil
		})
	},
}

var classStudentsCmd = &cobra.Command{
	Use:   "students [CLASS]",
	Short: "List students, optionally of one class",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		class := ""
		if len(args) > 0 {
			class = args[0]
		}
		return withApp("ListStudents", func(a *app.LabApp) error {
			students, err := a.ListStudents(class)
			if err != nil {
				return err
			}
			for _, s := range students {
				fmt.Printf("%-12s  %-28s  %-6s  %-5s  %d\n", s.Code, s.Name, s.Class, s.AssignedComputerID, s.TotalViolationPoints)
			}
			return nil
		})
	},
}

var classStatsCmd = &cobra.Command{
	Use:   "stats CLASS",
	Short: "Show a class's discipline and teaching summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("ClassStatistics", func(a *app.LabApp) error {
			st, err := a.ClassStatistics(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Class:      %s\n", st.Class)
			fmt.Printf("Students:   %d\n", st.Students)
			fmt.Printf("Violations: %d (%d points)\n", st.Violations, st.TotalPoints)
			for _, v := range st.ByType {
				fmt.Printf("  %-28s %d\n", v.Label, v.Count)
			}
			fmt.Printf("Periods:    %d\n", st.TotalLogs)
			for _, l := range st.RecentLogs {
				fmt.Printf("  %s  %-8s %d/%d  %s\n", l.Date, l.Period, l.StudentPresent, l.StudentTotal, l.LessonContent)
			}
			return nil
		})
	},
}

func init() {
	classCmd.AddCommand(classListCmd)
	classCmd.AddCommand(classAddCmd)
	classAddCmd.Flags().String("note", "", "Free-form note")
	classCmd.AddCommand(classEditCmd)
	classEditCmd.Flags().String("name", "", "New class name")
	classEditCmd.Flags().String("note", "", "New note")
	classCmd.AddCommand(classDeleteCmd)
	classCmd.AddCommand(classActivateCmd)
	classCmd.AddCommand(classImportCmd)
	classCmd.AddCommand(classStudentsCmd)
	classCmd.AddCommand(classStatsCmd)
}
