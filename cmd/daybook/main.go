package main

import (
	"fmt"
	"os"

	"daybook/internal/app"
	"daybook/internal/config"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Write", "Repair").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// readPassphrase prompts on stderr and reads a passphrase without echo.
var readPassphrase = func(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "Personal daily journal",
}

// config command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitEncrypt bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Generate a new host ID
		hostID := uuid.New().String()

		cfg := config.NewConfig(hostID, defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Host ID: %s\n", hostID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])

		if !configInitEncrypt {
			return nil
		}

		pass, err := readPassphrase("Passphrase for snapshot key: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if pass != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		a, err := app.NewApp(cfg, "SetupEncryption")
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		defer a.Close()

		if err := a.SetupEncryption(pass); err != nil {
			return fmt.Errorf("setting up encryption: %w", err)
		}
		fmt.Println("Snapshot encryption keys generated")
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
		fmt.Printf("Host ID:  %s\n", cfg.HostID)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:  %s\n", cfg.LogDir)
		fmt.Printf("Database: %s (%s)\n", cfg.Database.Type, cfg.Database.DataDir)
		return nil
	},
}

// write command

var writeMessage string

var writeCmd = &cobra.Command{
	Use:   "write [date]",
	Short: "Set the text for a day (today by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Write")
		if err != nil {
			return err
		}
		defer a.Close()

		dateArg := ""
		if len(args) == 1 {
			dateArg = args[0]
		}

		entry, err := a.Write(dateArg, writeMessage)
		if err != nil {
			return err
		}
		fmt.Printf("Saved entry for %s\n", entry.DayKey)
		return nil
	},
}

// draw command

var drawFile string

var drawCmd = &cobra.Command{
	Use:   "draw [date]",
	Short: "Attach a drawing to a day (today by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(drawFile)
		if err != nil {
			return fmt.Errorf("reading drawing file: %w", err)
		}

		a, err := newApp("Draw")
		if err != nil {
			return err
		}
		defer a.Close()

		dateArg := ""
		if len(args) == 1 {
			dateArg = args[0]
		}

		entry, err := a.Draw(dateArg, data)
		if err != nil {
			return err
		}
		fmt.Printf("Saved drawing for %s (%d bytes)\n", entry.DayKey, len(entry.Drawing))
		return nil
	},
}

// show command

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the entry for a day (today by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Show")
		if err != nil {
			return err
		}
		defer a.Close()

		dateArg := ""
		if len(args) == 1 {
			dateArg = args[0]
		}

		entry, err := a.Show(dateArg)
		if err != nil {
			if entry == nil {
				return err
			}
			// A day that fails to load shows as empty rather than crashing.
			fmt.Fprintf(os.Stderr, "warning: entry loaded in degraded mode: %v\n", err)
		}

		fmt.Printf("%s\n", entry.DayKey)
		if entry.HasText() {
			fmt.Println(entry.Text)
		}
		if entry.HasDrawing() {
			fmt.Printf("[drawing: %d bytes]\n", len(entry.Drawing))
		}
		if entry.IsEmpty() {
			fmt.Println("(empty)")
		}
		return nil
	},
}

// list command

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all journal entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("List")
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.List()
		if err != nil {
			return err
		}
		for _, e := range entries {
			marker := " "
			if e.HasDrawing() {
				marker = "*"
			}
			text := e.Text
			if len(text) > 60 {
				text = text[:57] + "..."
			}
			fmt.Printf("%s %s %s\n", e.DayKey, marker, text)
		}
		return nil
	},
}

// delete command

var deleteCmd = &cobra.Command{
	Use:   "delete <date>",
	Short: "Delete every record for a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Delete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Delete(args[0]); err != nil {
			return fmt.Errorf("deleting entry: %w", err)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

// repair command

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Run the data repair passes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Repair")
		if err != nil {
			return err
		}
		defer a.Close()

		for _, report := range a.Repair() {
			status := "ok"
			if report.Err != nil {
				status = report.Err.Error()
			}
			fmt.Printf("%-22s repaired=%d %s\n", report.Pass, report.Repaired, status)
		}
		return nil
	},
}

// export / snapshots / restore commands

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Snapshot the journal to the configured vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Export")
		if err != nil {
			return err
		}
		defer a.Close()

		name, err := a.Export()
		if err != nil {
			return err
		}
		fmt.Printf("Exported %s\n", name)
		return nil
	},
}

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List snapshots in the configured vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Snapshots")
		if err != nil {
			return err
		}
		defer a.Close()

		names, err := a.ListSnapshots()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Replace the local journal with a vault snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		name := args[0]
		passphrase := ""
		if len(name) > 4 && name[len(name)-4:] == ".age" {
			passphrase, err = readPassphrase("Passphrase: ")
			if err != nil {
				return err
			}
		}

		if err := a.Restore(name, passphrase); err != nil {
			return err
		}
		fmt.Printf("Restored %s\n", name)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitEncrypt, "encrypt", false, "generate snapshot encryption keys")
	configCmd.AddCommand(configInitCmd, configListCmd)

	writeCmd.Flags().StringVarP(&writeMessage, "message", "m", "", "entry text")
	writeCmd.MarkFlagRequired("message")

	drawCmd.Flags().StringVarP(&drawFile, "file", "f", "", "drawing file")
	drawCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(configCmd, writeCmd, drawCmd, showCmd, listCmd,
		deleteCmd, repairCmd, exportCmd, snapshotsCmd, restoreCmd)
}
