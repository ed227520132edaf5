package main

import (
	"fmt"
	"os"

	"lab-go/internal/app"
	"lab-go/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := app.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a LabApp. The caller must close it.
// operation identifies the CLI command being run (e.g. "Activate", "ImportRoster").
func newApp(operation string) (*app.LabApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewLabApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// withApp runs fn against a freshly opened app and closes it afterwards,
// reporting the first error.
func withApp(operation string, fn func(a *app.LabApp) error) error {
	a, err := newApp(operation)
	if err != nil {
		return err
	}
	err = fn(a)
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

var rootCmd = &cobra.Command{
	Use:          "lab",
	Short:        "Computer lab manager",
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Do not ask for confirmation")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(machineCmd)
	rootCmd.AddCommand(classCmd)
	rootCmd.AddCommand(violationCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(backupCmd)
}
