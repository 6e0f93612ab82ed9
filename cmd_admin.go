package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"riddlebox/pkg/game/admin"
	"riddlebox/pkg/game/renderer"
)

var (
	adminPin    string
	assumeYes   bool
	dumpDir     string
	setBypass   bool
	setDevTools bool
	dashboard   *admin.Dashboard
)

// adminCmd is the parent of the dashboard operations
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Inspect and change riddle progress",
	Long: `Admin operations need the 4-digit admin PIN (--pin). The PIN is
skipped for local sessions while the localhost bypass is enabled.

Available subcommands:
  status     - Show progress of every riddle
  set        - Jump a riddle to a stage
  advance    - Move a riddle one stage forward
  reset      - Reset one riddle
  reset-all  - Reset every riddle and the admin settings
  settings   - Show or change the admin settings
  dump       - Write a report of the stored state`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		gate := admin.NewGate(cmd.Context(), cfg.Admin.Pin, repo)
		if err := gate.Unlock(adminPin, clientHost()); err != nil {
			return err
		}
		dashboard = admin.NewDashboard(repo, logger)
		return nil
	},
}

var adminStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show progress of every riddle",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer.RenderStatus(dashboard.Rows(cmd.Context()))
		return nil
	},
}

var adminSetCmd = &cobra.Command{
	Use:   "set <riddle> <stage>",
	Short: "Jump a riddle to a stage (1 is the entrance)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("stage must be a number: %w", err)
		}
		stage, err := dashboard.Jump(cmd.Context(), args[0], n-1)
		if err != nil {
			return err
		}
		renderer.ShowMessage(renderer.FormatText("OK{%s} is now at stage %d", args[0], stage+1))
		return nil
	},
}

var adminAdvanceCmd = &cobra.Command{
	Use:   "advance <riddle>",
	Short: "Move a riddle one stage forward",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, err := dashboard.Advance(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		renderer.ShowMessage(renderer.FormatText("OK{%s} is now at stage %d", args[0], stage+1))
		return nil
	},
}

var adminResetCmd = &cobra.Command{
	Use:   "reset <riddle>",
	Short: "Reset one riddle to its entrance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(fmt.Sprintf("Are you sure you want to reset %q?", args[0])) {
			return nil
		}
		if err := dashboard.Reset(cmd.Context(), args[0]); err != nil {
			return err
		}
		renderer.ShowMessage(renderer.FormatText("OK{%s} reset", args[0]))
		return nil
	},
}

var adminResetAllCmd = &cobra.Command{
	Use:   "reset-all",
	Short: "Reset every riddle and the admin settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm("Are you sure you want to reset ALL riddle progress?") {
			return nil
		}
		dashboard.ResetAll(cmd.Context())
		renderer.ShowMessage(renderer.FormatText("OK{All progress reset}"))
		return nil
	},
}

var adminSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the admin settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if cmd.Flags().Changed("bypass") {
			dashboard.SetBypass(ctx, setBypass)
		}
		if cmd.Flags().Changed("devtools") {
			dashboard.SetDevTools(ctx, setDevTools)
		}
		renderer.RenderSettings(dashboard.Settings(ctx))
		return nil
	},
}

var adminDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Write a report of the stored state",
	Long:  `Writes the report to stdout, or to state-dump.txt in --out when given.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dumpDir == "" {
			return admin.Dump(cmd.Context(), os.Stdout, repo)
		}
		path, err := admin.DumpToFile(cmd.Context(), dumpDir, repo)
		if err != nil {
			return fmt.Errorf("failed to write dump: %w", err)
		}
		renderer.ShowMessage(renderer.FormatText("State written to OK{%s}", path))
		return nil
	},
}

func registerAdminCommands() {
	adminCmd.PersistentFlags().StringVar(&adminPin, "pin", "", "Admin PIN")
	adminResetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	adminResetAllCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	adminSettingsCmd.Flags().BoolVar(&setBypass, "bypass", false, "Skip the PIN for local sessions")
	adminSettingsCmd.Flags().BoolVar(&setDevTools, "devtools", false, "Allow skipping stages while playing")
	adminDumpCmd.Flags().StringVarP(&dumpDir, "out", "o", "", "Directory to write state-dump.txt to")

	adminCmd.AddCommand(adminStatusCmd)
	adminCmd.AddCommand(adminSetCmd)
	adminCmd.AddCommand(adminAdvanceCmd)
	adminCmd.AddCommand(adminResetCmd)
	adminCmd.AddCommand(adminResetAllCmd)
	adminCmd.AddCommand(adminSettingsCmd)
	adminCmd.AddCommand(adminDumpCmd)
	rootCmd.AddCommand(adminCmd)
}

// clientHost is the host the player connects from: the SSH client for remote
// sessions, localhost otherwise.
func clientHost() string {
	if conn := os.Getenv("SSH_CONNECTION"); conn != "" {
		if fields := strings.Fields(conn); len(fields) > 0 {
			return fields[0]
		}
	}
	if client := os.Getenv("SSH_CLIENT"); client != "" {
		if fields := strings.Fields(client); len(fields) > 0 && net.ParseIP(fields[0]) != nil {
			return fields[0]
		}
	}
	return "localhost"
}

func confirm(question string) bool {
	if assumeYes {
		return true
	}
	fmt.Printf("%s [y/N] ", question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
