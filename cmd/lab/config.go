package main

import (
	"fmt"

	"lab-go/internal/app"
	"lab-go/internal/config"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		labID, _ := cmd.Flags().GetString("lab-id")
		if labID == "" {
			labID = uuid.New().String()
		}

		cfg := config.NewConfig(labID, defaults["base_dir"])
		if teacher, _ := cmd.Flags().GetString("teacher"); teacher != "" {
			cfg.TeacherName = teacher
		}
		if tz, _ := cmd.Flags().GetString("timezone"); tz != "" {
			cfg.Timezone = tz
		}

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Lab ID:   %s\n", labID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Lab ID:    %s\n", cfg.LabID)
		fmt.Printf("Teacher:   %s\n", cfg.TeacherName)
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Store:     %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		tz := cfg.Timezone
		if tz == "" {
			tz = "local"
		}
		fmt.Printf("Timezone:  %s\n", tz)
		for _, v := range cfg.Vaults {
			fmt.Printf("Vault:     %s (%s)\n", v.Name, v.Type)
		}
		fmt.Printf("Auto push: %v\n", cfg.Backup.AutoPush)
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Generate the snapshot encryption keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := readNewPassphrase()
		if err != nil {
			return err
		}
		return withApp("SetupKeys", func(a *app.LabApp) error {
			if err := a.SetupKeys(passphrase); err != nil {
				return fmt.Errorf("generating keys: %w", err)
			}
			fmt.Println("Encryption keys generated.")
			if pub, err := a.PublicKey(); err == nil {
				fmt.Printf("Public key: %s\n", pub)
			}
			return nil
		})
	},
}

var configVaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Check that the configured vault is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("ValidateVault", func(a *app.LabApp) error {
			if err := a.ValidateVault(); err != nil {
				return fmt.Errorf("vault check failed: %w", err)
			}
			fmt.Println("Vault OK.")
			return nil
		})
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().String("lab-id", "", "Lab identifier (default: random)")
	configInitCmd.Flags().String("teacher", "", "Teacher name recorded on ledger entries")
	configInitCmd.Flags().String("timezone", "", "IANA timezone, e.g. Asia/Ho_Chi_Minh")
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configVaultCmd)
}
