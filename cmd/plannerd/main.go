package main

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"plannerd/internal/api"
	"plannerd/internal/app"
	"plannerd/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
func newApp() (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// readPassphrase prompts for a passphrase without echoing it.
func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(data), nil
}

var rootCmd = &cobra.Command{
	Use:   "plannerd",
	Short: "Scheduling app backend: state persistence and backup snapshots",
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		logger := a.Logger()
		return api.Serve(a, logger, a.Config().ListenAddr)
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

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Data Dir:    %s\n", cfg.DataDir)
		fmt.Printf("Listen Addr: %s\n", cfg.ListenAddr)
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
		fmt.Printf("Listen Addr:  %s\n", cfg.ListenAddr)
		fmt.Printf("Data Dir:     %s\n", cfg.DataDir)
		fmt.Printf("Log Dir:      %s\n", cfg.LogDir)
		fmt.Printf("Snapshot Dir: %s\n", cfg.SnapshotDir())
		fmt.Printf("Mirror:       %s\n", mirrorLabel(cfg))
		fmt.Printf("Encryption:   %s\n", encryptionLabel(cfg))
		return nil
	},
}

var configKeysInitCmd = &cobra.Command{
	Use:   "keys-init",
	Short: "Generate the mirror encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.Config().Encryption.Type != "age" {
			return fmt.Errorf("encryption is not enabled in the config (type = %q)", a.Config().Encryption.Type)
		}
		if a.Encryptor().IsConfigured() {
			return fmt.Errorf("key pair already exists")
		}

		passphrase, err := readPassphrase("Passphrase for the private key: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		if err := a.Encryptor().Setup(passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Println("Key pair generated.")
		return nil
	},
}

// backups command
var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List backup snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		backups, err := a.ListBackups()
		if err != nil {
			return err
		}

		if len(backups) == 0 {
			fmt.Println("No backups recorded.")
			return nil
		}

		for _, b := range backups {
			fmt.Printf("%s  %s  %-12s  %s\n", b.ID, b.CreatedAtISO, b.Reason, b.FilePath)
		}
		return nil
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore BACKUP_ID",
	Short: "Restore the document from a backup snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		restoredAt, _, err := a.Restore(args[0])
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		fmt.Printf("Restored from %s at %s\n", args[0], restoredAt.Format(time.RFC3339))
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View the operation journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, e := range entries {
			duration := ""
			if e.FinishedAt != nil {
				duration = e.FinishedAt.Sub(e.StartedAt).Truncate(time.Millisecond).String()
			}
			fmt.Printf("%-10s  %s  %-8s  %-20s  %s\n",
				e.Operation,
				e.StartedAt.Format("2006-01-02 15:04:05"),
				e.Status,
				e.BackupID,
				duration,
			)
		}
		return nil
	},
}

// mirror command
var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Work with the offsite snapshot mirror",
}

var mirrorFetchCmd = &cobra.Command{
	Use:   "fetch BACKUP_ID",
	Short: "Download a mirrored snapshot and print its plaintext",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("output")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		passphrase := ""
		if a.Encryptor().IsConfigured() {
			passphrase, err = readPassphrase("Passphrase: ")
			if err != nil {
				return err
			}
		}

		out := os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		if err := a.FetchMirrored(args[0], passphrase, out); err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}
		return nil
	},
}

func mirrorLabel(cfg *config.Config) string {
	if cfg.Mirror.Type == "" {
		return "disabled"
	}
	if cfg.Mirror.Type == "s3" {
		return fmt.Sprintf("s3 (bucket %s)", cfg.Mirror.S3Bucket)
	}
	return cfg.Mirror.Type
}

func encryptionLabel(cfg *config.Config) string {
	if cfg.Encryption.Type == "" {
		return "none"
	}
	return cfg.Encryption.Type
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configKeysInitCmd)

	// mirror subcommands
	mirrorCmd.AddCommand(mirrorFetchCmd)
	mirrorFetchCmd.Flags().StringP("output", "o", "", "Write the snapshot to a file instead of stdout")

	// root commands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of journal entries to show")
	rootCmd.AddCommand(mirrorCmd)
}
