package cli

import (
	"bufio"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andy/invoicer/internal/db"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset data in the database",
	Long: `Reset data in the database. Rendered invoice files in the archive
directory are never touched.

Examples:
  invoicer reset invoices    # Forget invoice history records
  invoicer reset all         # Wipe customers, products and invoice history`,
}

var resetInvoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Delete all invoice history records",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !confirmPrompt(bufio.NewReader(cmd.InOrStdin()), out, "This will delete ALL invoice history records. Continue?") {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}

		if err := clearTables(context.Background(), appInstance.DB, "invoice_items", "invoices"); err != nil {
			return err
		}

		fmt.Fprintln(out, "All invoice history records have been deleted.")
		return nil
	},
}

var resetAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Delete ALL data: customers, products, invoice history",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !confirmPrompt(bufio.NewReader(cmd.InOrStdin()), out, "This will delete ALL data (customers, products, invoice history). Continue?") {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}

		// Items first; they reference invoices
		tables := []string{"invoice_items", "invoices", "products", "customers"}
		if err := clearTables(context.Background(), appInstance.DB, tables...); err != nil {
			return err
		}

		fmt.Fprintln(out, "All data has been deleted.")
		return nil
	},
}

// clearTables empties the named tables in one transaction
func clearTables(ctx context.Context, database *db.DB, tables ...string) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func init() {
	resetCmd.AddCommand(resetInvoicesCmd)
	resetCmd.AddCommand(resetAllCmd)
}
