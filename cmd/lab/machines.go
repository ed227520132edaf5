package main

import (
	"fmt"

	"lab-go/internal/app"
	"lab-go/internal/lab"

	"github.com/spf13/cobra"
)

var machineCmd = &cobra.Command{
	Use:     "machine",
	Aliases: []string{"m"},
	Short:   "Manage lab machines",
}

var machineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List machines",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		return withApp("ListMachines", func(a *app.LabApp) error {
			machines, err := a.ListMachines()
			if err != nil {
				return err
			}
			for _, m := range machines {
				if status != "" && string(m.Status) != status {
					continue
				}
				fmt.Printf("%-5s  %-16s  %-14s  %s\n", m.ID, m.Location, m.Status.Label(), m.AssignedStudentName)
			}
			return nil
		})
	},
}

var machineShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one machine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("GetMachine", func(a *app.LabApp) error {
			m, err := a.GetMachine(args[0])
			if err != nil {
				return err
			}
			printMachine(m)
			return nil
		})
	},
}

func printMachine(m *lab.Machine) {
	fmt.Printf("ID:       %s\n", m.ID)
	fmt.Printf("Name:     %s\n", m.Name)
	fmt.Printf("Location: %s\n", m.Location)
	fmt.Printf("Status:   %s\n", m.Status.Label())
	if m.IPAddress != "" {
		fmt.Printf("IP:       %s\n", m.IPAddress)
	}
	if m.Specs != "" {
		fmt.Printf("Specs:    %s\n", m.Specs)
	}
	if m.Seated() {
		fmt.Printf("Student:  %s (%s)\n", m.AssignedStudentName, m.AssignedStudentID)
	}
	fmt.Printf("Code:     %s\n", lab.ScanCode(m.ID))
}

func machineInputFromFlags(cmd *cobra.Command) lab.MachineInput {
	var in lab.MachineInput
	in.ID, _ = cmd.Flags().GetString("id")
	in.Name, _ = cmd.Flags().GetString("name")
	in.Location, _ = cmd.Flags().GetString("location")
	in.IPAddress, _ = cmd.Flags().GetString("ip")
	in.Specs, _ = cmd.Flags().GetString("specs")
	status, _ := cmd.Flags().GetString("status")
	in.Status = lab.MachineStatus(status)
	return in
}

var machineAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := machineInputFromFlags(cmd)
		return withApp("AddMachine", func(a *app.LabApp) error {
			m, err := a.AddMachine(in)
			if err != nil {
				return err
			}
			fmt.Printf("Added %s\n", m.ID)
			return nil
		})
	},
}

var machineEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a machine's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := machineInputFromFlags(cmd)
		return withApp("UpdateMachine", func(a *app.LabApp) error {
			m, err := a.UpdateMachine(args[0], in)
			if err != nil {
				return err
			}
			printMachine(m)
			return nil
		})
	},
}

var machineStatusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Set a machine's status (working, maintenance, broken, repairing, disabled)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("SetMachineStatus", func(a *app.LabApp) error {
			status := lab.MachineStatus(args[1])
			if err := a.SetMachineStatus(args[0], status); err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", args[0], status.Label())
			return nil
		})
	},
}

var machineDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Remove a machine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := confirm(cmd, fmt.Sprintf("Remove machine %s?", args[0])); err != nil {
			return err
		}
		return withApp("DeleteMachine", func(a *app.LabApp) error {
			if err := a.DeleteMachine(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", args[0])
			return nil
		})
	},
}

var machineClearCmd = &cobra.Command{
	Use:   "clear [ID]",
	Short: "Vacate one machine, or every machine when no ID is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return withApp("ClearSeats", func(a *app.LabApp) error {
				if err := a.ClearSeats(); err != nil {
					return err
				}
				fmt.Println("All seats cleared.")
				return nil
			})
		}
		return withApp("ClearMachineSeat", func(a *app.LabApp) error {
			return a.ClearMachineSeat(args[0])
		})
	},
}

var machineCodesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Print the label code of every machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("ListMachines", func(a *app.LabApp) error {
			machines, err := a.ListMachines()
			if err != nil {
				return err
			}
			for _, m := range machines {
				fmt.Printf("%s\t%s\n", m.ID, lab.ScanCode(m.ID))
			}
			return nil
		})
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan CODE",
	Short: "Look up the machine a scanned label refers to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("ResolveScanCode", func(a *app.LabApp) error {
			m, err := a.ResolveScanCode(args[0])
			if err != nil {
				return err
			}
			printMachine(m)
			return nil
		})
	},
}

func init() {
	machineCmd.AddCommand(machineListCmd)
	machineListCmd.Flags().String("status", "", "Only show machines with this status")
	machineCmd.AddCommand(machineShowCmd)
	for _, c := range []*cobra.Command{machineAddCmd, machineEditCmd} {
		c.Flags().String("name", "", "Display name")
		c.Flags().String("location", "", "Seat location")
		c.Flags().String("ip", "", "IP address")
		c.Flags().String("specs", "", "Hardware description")
		c.Flags().String("status", "", "Status")
		machineCmd.AddCommand(c)
	}
	machineAddCmd.Flags().String("id", "", "Machine id (default: next free)")
	machineCmd.AddCommand(machineStatusCmd)
	machineCmd.AddCommand(machineDeleteCmd)
	machineCmd.AddCommand(machineClearCmd)
	machineCmd.AddCommand(machineCodesCmd)
}
