package cli

import (
	"github.com/spf13/cobra"

	"github.com/andy/invoicer/internal/app"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "invoicer",
	Short: "Customer, product and invoice management for small shops",
	Long: `Invoicer keeps customer and product lists, builds invoices with
wholesale or retail pricing, renders them to PDF and keeps an archive of
everything it has generated.

By default, running invoicer without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch TUI
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(customersCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(invoiceCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tuiCmd)
}
