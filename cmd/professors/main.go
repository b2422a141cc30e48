package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/unical-dimes/professors/internal/interfaces/cli/migrate"
	"github.com/unical-dimes/professors/internal/interfaces/cli/seed"
	"github.com/unical-dimes/professors/internal/interfaces/cli/server"
	"github.com/unical-dimes/professors/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "professors",
		Short:        "Professor review API",
		Long:         `Teacher, course and review catalog with moderated submissions, plus server, migration and seeding commands.`,
		Version:      version.Current(),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
