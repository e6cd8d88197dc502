package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/render"
)

var invoiceCmd = &cobra.Command{
	Use:     "invoice",
	Aliases: []string{"invoices"},
	Short:   "Create invoices and browse invoice history",
}

// itemSpec is one --item value: REF:QTY[:TYPE]
type itemSpec struct {
	Ref       string
	Quantity  string
	PriceType domain.PriceType
}

// parseItemSpec splits REF:QTY[:TYPE] from the right so product names may
// contain colons. Without a type the default tier is used.
func parseItemSpec(s string, def domain.PriceType) (itemSpec, error) {
	spec := itemSpec{PriceType: def}
	rest := s

	i := strings.LastIndex(rest, ":")
	if i < 0 {
		return spec, fmt.Errorf("invalid item %q: expected PRODUCT:QUANTITY[:TYPE]", s)
	}
	if t, err := domain.ParsePriceType(rest[i+1:]); err == nil {
		spec.PriceType = t
		rest = rest[:i]
		i = strings.LastIndex(rest, ":")
		if i < 0 {
			return spec, fmt.Errorf("invalid item %q: expected PRODUCT:QUANTITY[:TYPE]", s)
		}
	}

	spec.Ref = strings.TrimSpace(rest[:i])
	spec.Quantity = strings.TrimSpace(rest[i+1:])
	if spec.Ref == "" || spec.Quantity == "" {
		return spec, fmt.Errorf("invalid item %q: expected PRODUCT:QUANTITY[:TYPE]", s)
	}
	return spec, nil
}

var invoiceCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Build and render an invoice",
	Long: `Build an invoice from --item flags and render it to the archive.

Each --item is PRODUCT:QUANTITY[:TYPE] where PRODUCT is an id or exact name
and TYPE is wholesale or retail. Example:

  invoicer invoice create --customer "ACME" --item 3:2 --item "Widget:5:wholesale"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		customerRef, _ := cmd.Flags().GetString("customer")
		items, _ := cmd.Flags().GetStringArray("item")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		open, _ := cmd.Flags().GetBool("open")

		def := appInstance.Config.PriceType()
		if cmd.Flags().Changed("type") {
			raw, _ := cmd.Flags().GetString("type")
			t, err := domain.ParsePriceType(raw)
			if err != nil {
				return err
			}
			def = t
		}

		b := appInstance.NewBuilder()
		if customerRef != "" {
			if _, err := b.SetCustomer(ctx, customerRef); err != nil {
				return fmt.Errorf("failed to set customer: %w", err)
			}
		}

		for _, raw := range items {
			spec, err := parseItemSpec(raw, def)
			if err != nil {
				return err
			}
			line, err := b.AddItem(ctx, spec.Ref, spec.Quantity, spec.PriceType)
			if err != nil {
				return fmt.Errorf("failed to add %s: %w", spec.Ref, err)
			}
			fmt.Fprintf(out, "  + %s x %s %s @ %s = %s\n",
				line.ProductName, line.Quantity.String(), line.BaseUnit,
				money(line.UnitPrice), money(line.LineTotal))
		}

		if dryRun {
			snap, err := b.Finalize()
			if err != nil {
				return err
			}
			cfg := appInstance.Config.Invoice
			fmt.Fprintln(out)
			fmt.Fprint(out, render.NewLayout(snap, time.Now(), cfg.Title, cfg.Footer).String())
			return nil
		}

		total := b.Total()
		path, err := appInstance.InvoiceService.Generate(ctx, b)
		if err != nil {
			return fmt.Errorf("failed to generate invoice: %w", err)
		}

		fmt.Fprintf(out, "✓ Invoice generated: %s\n", path)
		fmt.Fprintf(out, "  Total: %s\n", money(total))

		if open {
			if err := appInstance.Archive.Open(filepath.Base(path)); err != nil {
				return fmt.Errorf("failed to open invoice: %w", err)
			}
		}
		return nil
	},
}

var invoiceHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List generated invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		records, err := appInstance.InvoiceService.History(ctx)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		if len(records) == 0 {
			fmt.Fprintln(out, "No invoices found")
			return nil
		}

		fmt.Fprintf(out, "%-5s %-20s %-10s %14s  %s\n", "ID", "Created", "Customer", "Total", "File")
		fmt.Fprintln(out, "--------------------------------------------------------------------------------")

		for _, r := range records {
			customer := "-"
			if r.CustomerID != nil {
				customer = fmt.Sprintf("%d", *r.CustomerID)
			}
			fmt.Fprintf(out, "%-5d %-20s %-10s %14s  %s\n",
				r.ID,
				r.CreatedAt.Local().Format(time.DateTime),
				customer,
				money(r.TotalAmount),
				r.FileName,
			)
		}
		return nil
	},
}

var invoiceShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show the line items of a generated invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		var id int64
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid invoice ID: %w", err)
		}

		rec, err := appInstance.InvoiceService.GetInvoice(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		fmt.Fprintf(out, "Invoice #%d  %s  %s\n\n", rec.ID, rec.CreatedAt.Local().Format(time.DateTime), rec.FileName)
		for _, it := range rec.Items {
			fmt.Fprintf(out, "  %-30s %8s %-6s %-9s %12s %12s\n",
				truncate(it.ProductName, 30),
				it.Quantity.String(),
				it.BaseUnit,
				it.PriceType.Title(),
				money(it.UnitPrice),
				money(it.TotalPrice),
			)
		}
		fmt.Fprintf(out, "\n  Total: %s\n", money(rec.TotalAmount))
		return nil
	},
}

var invoiceReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize sales from invoice history",
	Long: `Summarize invoice history. Without flags the current month is covered.

Examples:
  invoicer invoice report --from 2024-01-01 --to 2024-03-31
  invoicer invoice report --year 2024     # revenue per month`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		if cmd.Flags().Changed("year") {
			year, _ := cmd.Flags().GetInt("year")
			revenue, err := appInstance.ReportService.GetRevenueByMonth(ctx, year)
			if err != nil {
				return fmt.Errorf("failed to build report: %w", err)
			}
			fmt.Fprintf(out, "Revenue %d\n\n", year)
			total := decimal.Zero
			for m := time.January; m <= time.December; m++ {
				fmt.Fprintf(out, "  %-10s %14s\n", m.String(), money(revenue[m]))
				total = total.Add(revenue[m])
			}
			fmt.Fprintf(out, "\n  %-10s %14s\n", "Total", money(total))
			return nil
		}

		now := time.Now()
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
		end := start.AddDate(0, 1, 0)
		if v, _ := cmd.Flags().GetString("from"); v != "" {
			t, err := time.ParseInLocation(time.DateOnly, v, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --from date (use YYYY-MM-DD): %w", err)
			}
			start = t
		}
		if v, _ := cmd.Flags().GetString("to"); v != "" {
			t, err := time.ParseInLocation(time.DateOnly, v, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --to date (use YYYY-MM-DD): %w", err)
			}
			end = t.AddDate(0, 0, 1) // inclusive
		}

		summary, err := appInstance.ReportService.GetSalesSummary(ctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}

		fmt.Fprintf(out, "Sales %s to %s\n\n", start.Format(time.DateOnly), end.AddDate(0, 0, -1).Format(time.DateOnly))
		fmt.Fprintf(out, "  Invoices: %d\n", summary.InvoiceCount)
		fmt.Fprintf(out, "  Revenue:  %s\n", money(summary.TotalRevenue))
		fmt.Fprintf(out, "  Wholesale: %s  Retail: %s\n",
			money(summary.ByPriceType[domain.PriceWholesale]), money(summary.ByPriceType[domain.PriceRetail]))

		if len(summary.Products) > 0 {
			fmt.Fprintf(out, "\n  %-30s %10s %-6s %14s\n", "Product", "Quantity", "Unit", "Revenue")
			for _, p := range summary.Products {
				fmt.Fprintf(out, "  %-30s %10s %-6s %14s\n", truncate(p.ProductName, 30), p.Quantity.String(), p.BaseUnit, money(p.Revenue))
			}
		}
		return nil
	},
}

func init() {
	invoiceCmd.AddCommand(invoiceCreateCmd)
	invoiceCmd.AddCommand(invoiceReportCmd)
	invoiceCmd.AddCommand(invoiceHistoryCmd)
	invoiceCmd.AddCommand(invoiceShowCmd)

	invoiceCreateCmd.Flags().StringP("customer", "c", "", "Customer id or exact name")
	invoiceCreateCmd.Flags().StringArrayP("item", "i", nil, "Line item as PRODUCT:QUANTITY[:TYPE] (repeatable)")
	invoiceCreateCmd.Flags().StringP("type", "t", "", "Default price type for items (wholesale or retail)")
	invoiceCreateCmd.Flags().Bool("dry-run", false, "Print the invoice instead of rendering it")
	invoiceCreateCmd.Flags().Bool("open", false, "Open the PDF after rendering")
	invoiceCreateCmd.MarkFlagRequired("item")

	invoiceReportCmd.Flags().String("from", "", "First day (YYYY-MM-DD)")
	invoiceReportCmd.Flags().String("to", "", "Last day, inclusive (YYYY-MM-DD)")
	invoiceReportCmd.Flags().Int("year", 0, "Show revenue per month for this year")
}
