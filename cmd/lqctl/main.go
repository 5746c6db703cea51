package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/lifequest/backend/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "lqctl",
		Short:         "LifeQuest operator tool",
		Long:          "lqctl runs migrations, seeds development data, mints tokens and triggers mission jobs against the configured database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cli.EnvFile, "env-file", ".env", "path to the .env file")
	rootCmd.PersistentFlags().BoolVarP(&cli.Verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(cli.MigrateCmd())
	rootCmd.AddCommand(cli.TokenCmd())
	rootCmd.AddCommand(cli.SeedCmd())
	rootCmd.AddCommand(cli.GenerateCmd())
	rootCmd.AddCommand(cli.ExpireCmd())
	rootCmd.AddCommand(cli.StatsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}
