package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	time.Local = time.UTC

	rootCmd := &cobra.Command{
		Use:           "brewlog",
		Short:         "Coffee and brew journal API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newServeCommand(), newMigrateCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
