package main

import (
	"errors"
	"fmt"
	"os"

	"clawwatch/internal/app"
	"clawwatch/internal/config"
	"clawwatch/internal/format"
	"clawwatch/internal/model"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "Sessions", "ArchiveRun").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		// Missing config is not fatal: run against the default layout.
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		cfg = config.NewConfig(defaults["home"], defaults["sessions_dir"])
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:     "clawwatch",
	Short:   "Session transcript lifecycle manager",
	Version: app.Version,
}

// sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List active sessions across all agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		outFormat, _ := cmd.Flags().GetString("format")

		a, err := newApp("Sessions")
		if err != nil {
			return err
		}
		defer a.Close()

		listing, err := a.Service().ListSessions(cmd.Context())
		if err != nil {
			return err
		}
		return format.WriteSessions(os.Stdout, listing, outFormat)
	},
}

// archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage archived sessions",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		outFormat, _ := cmd.Flags().GetString("format")

		a, err := newApp("ArchiveList")
		if err != nil {
			return err
		}
		defer a.Close()

		listing, err := a.Service().ListArchived()
		if err != nil {
			return err
		}
		return format.WriteArchive(os.Stdout, listing, outFormat)
	},
}

var archiveRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Archive all sessions past the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		outFormat, _ := cmd.Flags().GetString("format")

		a, err := newApp("ArchiveRun")
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Service().RunRetentionSweep()
		if err != nil {
			return err
		}
		return format.WriteSweepReport(os.Stdout, report, outFormat)
	},
}

var archiveSessionCmd = &cobra.Command{
	Use:   "session KEY",
	Short: "Archive a single session by key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ArchiveSession")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().ArchiveSession(args[0]); err != nil {
			return err
		}
		fmt.Printf("Archived %s\n", args[0])
		return nil
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore KEY",
	Short: "Restore an archived session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().RestoreSession(args[0]); err != nil {
			return err
		}
		fmt.Printf("Restored %s\n", args[0])
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history SESSION_ID",
	Short: "Show a session's conversation history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outFormat, _ := cmd.Flags().GetString("format")
		archived, _ := cmd.Flags().GetBool("archived")

		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		if archived {
			got, err := a.Service().ArchivedHistory(args[0])
			if err != nil {
				return err
			}
			return format.WriteHistory(os.Stdout, got, outFormat)
		}
		got, err := a.Service().SessionHistory(args[0])
		if err != nil {
			return err
		}
		return format.WriteHistory(os.Stdout, got, outFormat)
	},
}

// result command
var resultCmd = &cobra.Command{
	Use:   "result SESSION_ID",
	Short: "Show a session's final assistant message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outFormat, _ := cmd.Flags().GetString("format")

		a, err := newApp("Result")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Service().SessionResult(args[0])
		if err != nil {
			return err
		}
		return format.WriteResult(os.Stdout, result, outFormat)
	},
}

// settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show lifecycle settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		outFormat, _ := cmd.Flags().GetString("format")

		a, err := newApp("Settings")
		if err != nil {
			return err
		}
		defer a.Close()

		return format.WriteSettings(os.Stdout, a.Service().Settings(), outFormat)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update lifecycle settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SettingsSet")
		if err != nil {
			return err
		}
		defer a.Close()

		settings := a.Service().Settings()

		if cmd.Flags().Changed("retention-days") {
			raw, _ := cmd.Flags().GetString("retention-days")
			retention, err := parseRetention(raw)
			if err != nil {
				return err
			}
			settings.RetentionDays = retention
		}
		if cmd.Flags().Changed("auto-archive") {
			settings.AutoArchive, _ = cmd.Flags().GetBool("auto-archive")
		}
		if cmd.Flags().Changed("page-size") {
			settings.PageSize, _ = cmd.Flags().GetInt("page-size")
		}

		if err := a.Service().SaveSettings(settings); err != nil {
			return err
		}
		return format.WriteSettings(os.Stdout, a.Service().Settings(), "")
	},
}

// agents command
var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List agent filter options",
	RunE: func(cmd *cobra.Command, args []string) error {
		outFormat, _ := cmd.Flags().GetString("format")

		a, err := newApp("Agents")
		if err != nil {
			return err
		}
		defer a.Close()

		return format.WriteAgents(os.Stdout, a.Service().Agents(cmd.Context()), outFormat)
	},
}

// nodes command
var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List execution nodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		outFormat, _ := cmd.Flags().GetString("format")

		a, err := newApp("Nodes")
		if err != nil {
			return err
		}
		defer a.Close()

		return format.WriteNodes(os.Stdout, a.Service().Nodes(cmd.Context()), outFormat)
	},
}

// update-check command
var updateCheckCmd = &cobra.Command{
	Use:   "update-check",
	Short: "Check the release registry for a newer version",
	RunE: func(cmd *cobra.Command, args []string) error {
		outFormat, _ := cmd.Flags().GetString("format")

		a, err := newApp("UpdateCheck")
		if err != nil {
			return err
		}
		defer a.Close()

		return format.WriteUpdateStatus(os.Stdout, a.Checker().Check(cmd.Context()), outFormat)
	},
}

// config command
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

		cfg := config.NewConfig(defaults["home"], defaults["sessions_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Home:         %s\n", cfg.Home)
		fmt.Printf("Sessions Dir: %s\n", cfg.SessionsDir)
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
		fmt.Printf("Home:         %s\n", cfg.Home)
		fmt.Printf("Sessions Dir: %s\n", cfg.SessionsDir)
		fmt.Printf("Log Dir:      %s\n", cfg.LogDir)
		fmt.Printf("Main Agent:   %s\n", cfg.MainAgent)
		fmt.Printf("Agents:       %v\n", cfg.Agents)
		fmt.Printf("Read Only:    %t\n", cfg.ReadOnly)
		return nil
	},
}

// parseRetention accepts "never" or a positive day count.
func parseRetention(raw string) (model.RetentionDays, error) {
	if raw == "never" {
		return model.RetentionNever(), nil
	}
	var days int
	if _, err := fmt.Sscanf(raw, "%d", &days); err != nil || days <= 0 {
		return model.RetentionDays{}, fmt.Errorf("invalid retention: %q (want \"never\" or a positive day count)", raw)
	}
	return model.RetentionAfterDays(days), nil
}

func addFormatFlag(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().StringP("format", "f", "table", "Output format: table, plain, or json")
	}
}

func init() {
	// archive subcommands
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveRunCmd)
	archiveCmd.AddCommand(archiveSessionCmd)

	// settings subcommands
	settingsCmd.AddCommand(settingsSetCmd)
	settingsSetCmd.Flags().String("retention-days", "", "Retention window: \"never\" or a positive day count")
	settingsSetCmd.Flags().Bool("auto-archive", true, "Archive expired sessions automatically")
	settingsSetCmd.Flags().Int("page-size", 20, "Listing page size (10, 25, 50, or 100)")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	historyCmd.Flags().Bool("archived", false, "Read from the compressed archive instead of the live transcript")

	addFormatFlag(sessionsCmd, archiveListCmd, archiveRunCmd, historyCmd, resultCmd,
		settingsCmd, agentsCmd, nodesCmd, updateCheckCmd)

	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(updateCheckCmd)
	rootCmd.AddCommand(configCmd)
}
