package main

import (
	"fmt"
	"time"

	"lab-go/internal/app"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Encrypted snapshots of the lab",
}

var backupPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload an encrypted snapshot to the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("PushSnapshot", func(a *app.LabApp) error {
			version, err := a.PushSnapshot()
			if err != nil {
				return err
			}
			fmt.Printf("Snapshot %d pushed.\n", version)
			return nil
		})
	},
}

var backupStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Compare the vault snapshot with local data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("BackupStatus", func(a *app.LabApp) error {
			st, err := a.BackupStatus()
			if err != nil {
				return err
			}
			if !st.Configured {
				fmt.Println("Backups are not configured (add a vault and run `lab config keys`).")
			}
			if st.RemoteVersion == 0 {
				fmt.Println("Vault:  no snapshot")
			} else {
				fmt.Printf("Vault:  %s (version %d)\n", st.RemoteTakenAt.Local().Format(time.DateTime), st.RemoteVersion)
			}
			if !st.LocalUpdated.IsZero() {
				fmt.Printf("Local:  %s\n", st.LocalUpdated.Local().Format(time.DateTime))
				if st.RemoteVersion > 0 && st.LocalUpdated.After(st.RemoteTakenAt) {
					fmt.Println("Local data changed since the last push.")
				}
			}
			return nil
		})
	},
}

var backupPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace local data with the vault snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := confirm(cmd, "Overwrite all local data with the vault snapshot?"); err != nil {
			return err
		}
		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		return withApp("PullSnapshot", func(a *app.LabApp) error {
			snap, err := a.PullSnapshot(passphrase)
			if err != nil {
				return err
			}
			fmt.Printf("Restored snapshot %d taken %s.\n", snap.Version, snap.TakenAt.Local().Format(time.DateTime))
			return nil
		})
	},
}

var backupLocalCmd = &cobra.Command{
	Use:   "local FILE",
	Short: "Copy the local database to FILE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("BackupLocal", func(a *app.LabApp) error {
			if err := a.BackupLocal(args[0]); err != nil {
				return err
			}
			fmt.Printf("Database copied to %s\n", args[0])
			return nil
		})
	},
}

func init() {
	backupCmd.AddCommand(backupPushCmd)
	backupCmd.AddCommand(backupStatusCmd)
	backupCmd.AddCommand(backupPullCmd)
	backupCmd.AddCommand(backupLocalCmd)
}
