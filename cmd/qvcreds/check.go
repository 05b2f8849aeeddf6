package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantumventures/credentials/credentials"
	"github.com/quantumventures/credentials/internal/storage"
)

var (
	flagReadOnly bool
	flagVerbose  bool
	flagStorage  bool
	flagTimeout  time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load credentials from the vault and open a Quantum DB connection (exits 1 on failure)",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&flagReadOnly, "read-only", false, "Connect with read-only application intent")
	checkCmd.Flags().BoolVar(&flagVerbose, "verbose", true, "Print connection progress")
	checkCmd.Flags().BoolVar(&flagStorage, "storage", false, "Also list Blob Storage containers with the storage connection string")
	checkCmd.Flags().DurationVar(&flagTimeout, "timeout", 2*time.Minute, "Overall timeout")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
	defer cancel()

	status := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, PartsExclude: []string{zerolog.TimestampFieldName}})
	creds, err := credentials.FromConfig(ctx, cfg, credentials.WithStatusLogger(status))
	if err != nil {
		return err
	}

	db, err := creds.Connection(ctx, credentials.ConnectOptions{Verbose: flagVerbose, ReadOnly: flagReadOnly})
	if err != nil {
		return err
	}
	defer db.Close()

	var version string
	if err := db.QueryRowContext(ctx, "SELECT @@VERSION").Scan(&version); err != nil {
		return fmt.Errorf("query server version: %w", err)
	}
	fmt.Printf("database: %s\n", creds.Descriptor().Database)
	fmt.Printf("server:   %s\n", firstLine(version))

	if flagStorage {
		client, err := storage.NewBlobClient(creds.StorageConnectionString())
		if err != nil {
			return err
		}
		n, err := storage.Ping(ctx, client)
		if err != nil {
			return err
		}
		fmt.Printf("storage:  ok (%d container(s) on first page)\n", n)
	}
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
