package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/OmbraDiFenice/dupe-remover/internal/app"
	"github.com/OmbraDiFenice/dupe-remover/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// sessionDir is the value of the persistent --session flag. When set it
// overrides the configured session directory.
var sessionDir string

// newApp reads the config and creates an App. The caller must defer
// a.Close(). operation identifies the CLI command being run
// (e.g. "AnalyzeDir", "Delete").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation, sessionDir)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "dupe-remover",
	Short: "Find and remove duplicate image files",
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

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
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
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Session Dir: %s\n", cfg.SessionDir)
		fmt.Printf("Trash:       %s (encrypt: %v)\n", cfg.Trash.Type, cfg.Trash.Encrypt)
		if len(cfg.Filesystem.Ignore) > 0 {
			fmt.Printf("Ignore:      %s\n", strings.Join(cfg.Filesystem.Ignore, ", "))
		}
		return nil
	},
}

// analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze DIR",
	Short: "Index a directory tree and detect duplicates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AnalyzeDir")
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.AnalyzeDir(args[0])
		if err != nil {
			return fmt.Errorf("analyzing %s: %w", args[0], err)
		}

		// The sweep invalidated any prior decisions; persist the
		// cleared queue so the session file agrees.
		if err := a.SaveSession(); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		indexed, skipped, failed := report.Counts()
		fmt.Printf("Indexed %d file(s), skipped %d, failed %d\n", indexed, skipped, failed)

		groups, err := a.DuplicateGroups()
		if err != nil {
			return err
		}
		fmt.Printf("Found %d duplicate group(s)\n", len(groups))
		return nil
	},
}

// dupes command
var dupesCmd = &cobra.Command{
	Use:   "dupes",
	Short: "List duplicate groups from the last analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		stripPrefix, _ := cmd.Flags().GetString("strip-prefix")

		a, err := newApp("DuplicateGroups")
		if err != nil {
			return err
		}
		defer a.Close()

		groups, err := a.DuplicateGroups()
		if err != nil {
			return err
		}

		if len(groups) == 0 {
			fmt.Println("No duplicates found.")
			return nil
		}

		for _, d := range groups {
			fmt.Printf("%s\n", d.ContentHash)
			for _, f := range d.Files {
				fmt.Printf("  %s\n", strings.TrimPrefix(f, stripPrefix))
			}
		}
		return nil
	},
}

// keep command
var keepCmd = &cobra.Command{
	Use:   "keep HASH PATH",
	Short: "Queue a duplicate group for deletion, keeping PATH",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("QueueDecision")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.QueueDecision(args[0], args[1]); err != nil {
			return err
		}
		if err := a.SaveSession(); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Printf("Queued group %s, keeping %s\n", args[0], args[1])
		return nil
	},
}

// queue command
var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage the deletion queue",
}

var queueShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Preview queued deletions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("PreviewQueue")
		if err != nil {
			return err
		}
		defer a.Close()

		if a.QueueLen() == 0 {
			fmt.Println("Deletion queue is empty.")
			return nil
		}
		fmt.Print(a.PreviewQueue())
		return nil
	},
}

var queueRemoveCmd = &cobra.Command{
	Use:   "remove HASH",
	Short: "Drop the queued decision for a duplicate group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("UnqueueDecision")
		if err != nil {
			return err
		}
		defer a.Close()

		a.UnqueueDecision(args[0])
		if err := a.SaveSession(); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Printf("Removed decision for group %s\n", args[0])
		return nil
	},
}

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all queued decisions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ClearQueue")
		if err != nil {
			return err
		}
		defer a.Close()

		a.ClearQueue()
		if err := a.SaveSession(); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Println("Deletion queue cleared.")
		return nil
	},
}

// delete command
var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete all queued files",
	RunE: func(cmd *cobra.Command, args []string) error {
		assumeYes, _ := cmd.Flags().GetBool("yes")

		a, err := newApp("Delete")
		if err != nil {
			return err
		}
		defer a.Close()

		if a.QueueLen() == 0 {
			fmt.Println("Deletion queue is empty.")
			return nil
		}

		fmt.Print(a.PreviewQueue())
		if !assumeYes {
			ok, err := confirm("Delete these files?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}
		}

		report, err := a.Delete()
		if err != nil {
			return fmt.Errorf("deleting: %w", err)
		}
		if err := a.SaveSession(); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Printf("Deleted %d file(s)\n", report.Deleted())
		for _, o := range report.Outcomes {
			if o.Err != nil {
				fmt.Printf("  failed: %s: %v\n", o.Path, o.Err)
			}
		}
		return nil
	},
}

// confirm prompts for a y/N answer on stdin. It refuses when stdin is
// not a terminal so scripted runs must pass --yes explicitly.
func confirm(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("stdin is not a terminal, pass --yes to skip confirmation")
	}

	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View analysis history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		sweeps, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(sweeps) == 0 {
			fmt.Println("No analyses recorded.")
			return nil
		}

		for _, s := range sweeps {
			duration := ""
			if s.FinishedAt.Valid {
				d := s.FinishedAt.Time.Sub(s.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("%s  %s  %-8s  indexed:%d skipped:%d failed:%d  %s  %s\n",
				s.ID[:8],
				s.StartedAt.Format("2006-01-02 15:04:05"),
				s.Status,
				s.Indexed,
				s.Skipped,
				s.Failed,
				duration,
				s.Root,
			)
		}
		return nil
	},
}

// session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage analysis sessions",
}

var sessionSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Persist the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SaveSession")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SaveSession(); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Printf("Session saved to %s\n", a.Session().Dir())
		return nil
	},
}

var sessionSaveAsCmd = &cobra.Command{
	Use:   "saveas DEST",
	Short: "Copy the current session to a new directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SaveSessionAs")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SaveSessionAs(args[0]); err != nil {
			return err
		}

		fmt.Printf("Session saved to %s\n", a.Session().Dir())
		return nil
	},
}

var sessionLoadCmd = &cobra.Command{
	Use:   "load DIR",
	Short: "Verify a session directory can be loaded",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("LoadSession")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.LoadSession(args[0]); err != nil {
			return err
		}

		groups, err := a.DuplicateGroups()
		if err != nil {
			return err
		}

		fmt.Printf("Loaded session from %s: %d duplicate group(s), %d queued decision(s)\n",
			a.Session().Dir(), len(groups), a.QueueLen())
		fmt.Println("Pass --session to other commands to operate on it.")
		return nil
	},
}

// trash command
var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Manage the pre-deletion archive",
}

var trashKeygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate the trash encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SetupEncryption")
		if err != nil {
			return err
		}
		defer a.Close()

		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		confirmation, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirmation {
			return fmt.Errorf("passphrases do not match")
		}

		if err := a.SetupEncryption(passphrase); err != nil {
			return err
		}

		fmt.Println("Key pair generated.")
		return nil
	},
}

var trashRestoreCmd = &cobra.Command{
	Use:   "restore HASH DEST",
	Short: "Restore archived content to DEST",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("RestoreFromTrash")
		if err != nil {
			return err
		}
		defer a.Close()

		var passphrase string
		if a.EncryptionEnabled() {
			passphrase, err = readPassphrase("Passphrase: ")
			if err != nil {
				return err
			}
		}

		if err := a.RestoreFromTrash(args[0], args[1], passphrase); err != nil {
			return err
		}

		fmt.Printf("Restored %s to %s\n", args[0], args[1])
		return nil
	},
}

// readPassphrase reads a passphrase from the terminal without echo.
func readPassphrase(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("stdin is not a terminal")
	}

	fmt.Print(prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(data), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sessionDir, "session", "", "Session directory to operate on (default: configured session dir)")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// queue subcommands
	queueCmd.AddCommand(queueShowCmd)
	queueCmd.AddCommand(queueRemoveCmd)
	queueCmd.AddCommand(queueClearCmd)

	// session subcommands
	sessionCmd.AddCommand(sessionSaveCmd)
	sessionCmd.AddCommand(sessionSaveAsCmd)
	sessionCmd.AddCommand(sessionLoadCmd)

	// trash subcommands
	trashCmd.AddCommand(trashKeygenCmd)
	trashCmd.AddCommand(trashRestoreCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(dupesCmd)
	dupesCmd.Flags().String("strip-prefix", "", "Prefix to strip from printed paths")
	rootCmd.AddCommand(keepCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of analyses to show")
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(trashCmd)
}
