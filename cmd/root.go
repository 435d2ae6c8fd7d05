package cmd

import (
	"os"

	"healthcart/config"
	"healthcart/database"
	"healthcart/utils"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "healthcart",
	Short: "Home sample collection slot booking service",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadConfig()
		utils.InitializeLogger()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(workerCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(ensureIndexesCmd())
}

// Execute runs the CLI. With no subcommand it serves HTTP.
func Execute() {
	if len(os.Args) == 1 {
		rootCmd.SetArgs([]string{"serve"})
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect opens MongoDB for a command; the returned func closes it.
func connect() func() {
	database.InitDB()
	return database.Disconnect
}
