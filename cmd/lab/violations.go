package main

import (
	"fmt"
	"strings"

	"lab-go/internal/app"
	"lab-go/internal/lab"

	"github.com/spf13/cobra"
)

var violationCmd = &cobra.Command{
	Use:     "violation",
	Aliases: []string{"v"},
	Short:   "Record and review violations",
}

var violationRecordCmd = &cobra.Command{
	Use:   "record STUDENT TYPE",
	Short: "Record a violation for a student (code or part of the name)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		machine, _ := cmd.Flags().GetString("machine")
		note, _ := cmd.Flags().GetString("note")
		return withApp("ReportViolation", func(a *app.LabApp) error {
			rec, err := a.ReportViolation(lab.ViolationInput{
				Student:   args[0],
				MachineID: machine,
				Type:      lab.ViolationType(args[1]),
				Note:      note,
			})
			if err != nil {
				return err
			}
			printViolation(rec)
			return nil
		})
	},
}

var violationMachineCmd = &cobra.Command{
	Use:   "machine MACHINE TYPE",
	Short: "Record a violation for whoever sits at a machine",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, _ := cmd.Flags().GetString("note")
		return withApp("ReportMachineViolation", func(a *app.LabApp) error {
			id := args[0]
			if strings.HasPrefix(id, lab.ScanPrefix) {
				parsed, err := lab.ParseScanCode(id)
				if err != nil {
					return err
				}
				id = parsed
			}
			rec, err := a.ReportMachineViolation(id, lab.ViolationType(args[1]), note)
			if err != nil {
				return err
			}
			printViolation(rec)
			return nil
		})
	},
}

func printViolation(v *lab.ViolationRecord) {
	fmt.Printf("%s  %-5s  %-24s  %-6s  %-24s  %+d\n",
		v.Date.Local().Format("02/01 15:04"), v.ComputerID, v.StudentName, v.Class, v.ViolationName, v.Points)
}

var violationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List violations, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		class, _ := cmd.Flags().GetString("class")
		limit, _ := cmd.Flags().GetInt("limit")
		return withApp("ListViolations", func(a *app.LabApp) error {
			violations, err := a.ListViolations()
			if err != nil {
				return err
			}
			shown := 0
			for i := range violations {
				if class != "" && violations[i].Class != class {
					continue
				}
				if limit > 0 && shown == limit {
					break
				}
				printViolation(&violations[i])
				shown++
			}
			if shown == 0 {
				fmt.Println("No violations recorded.")
			}
			return nil
		})
	},
}

var violationTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List violation types and their points",
	Run: func(cmd *cobra.Command, args []string) {
		for _, k := range lab.ViolationKinds() {
			fmt.Printf("%-10s %+d  %s\n", k.Type, k.Points, k.Label)
		}
	},
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record and review taught periods",
}

var logAddCmd = &cobra.Command{
	Use:   "add CLASS PERIOD LESSON",
	Short: "Record a taught period",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := lab.TeacherLogInput{
			Class:         args[0],
			Period:        args[1],
			LessonContent: args[2],
		}
		in.Date, _ = cmd.Flags().GetString("date")
		in.Note, _ = cmd.Flags().GetString("note")
		in.EquipmentUsed, _ = cmd.Flags().GetStringSlice("equipment")
		if cmd.Flags().Changed("present") {
			present, _ := cmd.Flags().GetInt("present")
			in.Present = &present
		}

		return withApp("AddTeacherLog", func(a *app.LabApp) error {
			if in.Date == "" {
				in.Date = todayIn(a)
			}
			entry, err := a.AddTeacherLog(in)
			if err != nil {
				return err
			}
			fmt.Printf("Logged %s %s for %s (%d/%d present)\n", entry.Date, entry.Period, entry.Class, entry.StudentPresent, entry.StudentTotal)
			return nil
		})
	},
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "List taught periods, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("ListTeacherLogs", func(a *app.LabApp) error {
			logs, err := a.ListTeacherLogs()
			if err != nil {
				return err
			}
			for _, l := range logs {
				fmt.Printf("%s  %-8s  %-6s  %d/%d  %s\n", l.Date, l.Period, l.Class, l.StudentPresent, l.StudentTotal, l.LessonContent)
			}
			return nil
		})
	},
}

func init() {
	violationCmd.AddCommand(violationRecordCmd)
	violationRecordCmd.Flags().String("machine", "", "Machine the student was using")
	violationRecordCmd.Flags().String("note", "", "Free-form note")
	violationCmd.AddCommand(violationMachineCmd)
	violationMachineCmd.Flags().String("note", "", "Free-form note")
	violationCmd.AddCommand(violationListCmd)
	violationListCmd.Flags().String("class", "", "Only show this class")
	violationListCmd.Flags().IntP("limit", "n", 0, "Maximum number of violations to show")
	violationCmd.AddCommand(violationTypesCmd)

	logCmd.AddCommand(logAddCmd)
	logAddCmd.Flags().String("date", "", "Date as YYYY-MM-DD (default: today)")
	logAddCmd.Flags().String("note", "", "Free-form note")
	logAddCmd.Flags().StringSlice("equipment", nil, "Equipment used, comma separated")
	logAddCmd.Flags().Int("present", 0, "Students present (default: whole class)")
	logCmd.AddCommand(logListCmd)
}
