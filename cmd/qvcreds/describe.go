package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantumventures/credentials/credentials"
)

var flagDescribeReadOnly bool

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Load credentials and print the Quantum DB descriptor with the password masked",
	RunE:  runDescribe,
}

func init() {
	describeCmd.Flags().BoolVar(&flagDescribeReadOnly, "read-only", false, "Show the read-only variant")
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	creds, err := credentials.FromConfig(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	d := creds.Descriptor()
	if flagDescribeReadOnly {
		d = d.WithReadOnly()
	}
	fmt.Println(d.Redacted())
	for _, name := range []string{cfg.Secrets.Server, cfg.Secrets.Database, cfg.Secrets.Username, cfg.Secrets.Password, cfg.Secrets.Storage} {
		fmt.Printf("  %-40s  %s\n", name, creds.Source(name))
	}
	return nil
}
