package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Browse rendered invoice files",
	Long:  `List, open, and delete the invoice documents in the archive directory.`,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived invoices, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		entries, err := appInstance.Archive.List()
		if err != nil {
			return fmt.Errorf("failed to list archive: %w", err)
		}

		if len(entries) == 0 {
			fmt.Fprintf(out, "No invoices in %s\n", appInstance.Archive.Dir())
			return nil
		}

		fmt.Fprintf(out, "%-35s %-12s %-10s %10s\n", "File", "Date", "Time", "Size")
		fmt.Fprintln(out, "----------------------------------------------------------------------")
		for _, e := range entries {
			fmt.Fprintf(out, "%-35s %-12s %-10s %10d\n", e.FileName, e.Date(), e.Time(), e.Size)
		}
		return nil
	},
}

var archiveOpenCmd = &cobra.Command{
	Use:   "open [file]",
	Short: "Open an archived invoice in the system viewer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.Archive.Open(args[0]); err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Opened %s\n", args[0])
		return nil
	},
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete [file]",
	Short: "Delete an archived invoice file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		force, _ := cmd.Flags().GetBool("force")
		if !force && !confirmPrompt(bufio.NewReader(cmd.InOrStdin()), out, fmt.Sprintf("Delete %s?", args[0])) {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}

		if err := appInstance.Archive.Delete(args[0]); err != nil {
			return fmt.Errorf("failed to delete %s: %w", args[0], err)
		}
		fmt.Fprintf(out, "✓ Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveOpenCmd)
	archiveCmd.AddCommand(archiveDeleteCmd)

	archiveDeleteCmd.Flags().BoolP("force", "f", false, "Delete without asking")
}
