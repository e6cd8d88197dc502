package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/importer"
	"github.com/andy/invoicer/internal/service"
)

var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"product"},
	Short:   "Manage products",
	Long:    `List, add, edit, delete, and bulk import products.`,
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()
		term, _ := cmd.Flags().GetString("search")

		products, err := appInstance.Products.Search(ctx, term)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}

		if len(products) == 0 {
			fmt.Fprintln(out, "No products found")
			return nil
		}

		fmt.Fprintf(out, "%-5s %-30s %12s %12s %-8s %-8s %6s\n", "ID", "Name", "Wholesale", "Retail", "Unit", "Alt", "Ratio")
		fmt.Fprintln(out, "-------------------------------------------------------------------------------------------")

		for _, p := range products {
			fmt.Fprintf(out, "%-5d %-30s %12s %12s %-8s %-8s %6s\n",
				p.ID,
				truncate(p.Name, 30),
				money(p.WholesalePrice),
				money(p.RetailPrice),
				truncate(p.BaseUnit, 8),
				truncate(p.AltUnit, 8),
				p.UnitRatio.String(),
			)
		}

		fmt.Fprintf(out, "\nTotal: %d product(s)\n", len(products))
		return nil
	},
}

func productFieldsFromFlags(cmd *cobra.Command, fields *domain.ProductFields) {
	set := func(flag string, dst *string) {
		if cmd.Flags().Changed(flag) {
			*dst, _ = cmd.Flags().GetString(flag)
		}
	}
	set("name", &fields.Name)
	set("wholesale", &fields.WholesalePrice)
	set("retail", &fields.RetailPrice)
	set("unit", &fields.BaseUnit)
	set("alt-unit", &fields.AltUnit)
	set("ratio", &fields.UnitRatio)
	set("description", &fields.Description)
}

var productsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		fields := domain.ProductFields{Name: args[0]}
		productFieldsFromFlags(cmd, &fields)

		product, err := appInstance.Products.Create(ctx, fields)
		if err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Product created: %s (ID: %d)\n", product.Name, product.ID)
		fmt.Fprintf(out, "  Wholesale: %s  Retail: %s per %s\n", money(product.WholesalePrice), money(product.RetailPrice), product.BaseUnit)
		return nil
	},
}

var productsEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an existing product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product ID: %w", err)
		}

		product, err := appInstance.Products.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get product: %w", err)
		}

		fields := domain.ProductFields{
			Name:           product.Name,
			WholesalePrice: product.WholesalePrice.String(),
			RetailPrice:    product.RetailPrice.String(),
			BaseUnit:       product.BaseUnit,
			AltUnit:        product.AltUnit,
			UnitRatio:      product.UnitRatio.String(),
			Description:    product.Description,
		}
		productFieldsFromFlags(cmd, &fields)

		product, err = appInstance.Products.Update(ctx, id, fields)
		if err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Product updated: %s\n", product.Name)
		return nil
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product ID: %w", err)
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force && !confirmPrompt(bufio.NewReader(cmd.InOrStdin()), out, "Are you sure you want to delete this product?") {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}

		if err := appInstance.Products.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}

		fmt.Fprintf(out, "✓ Product deleted (ID: %d)\n", id)
		return nil
	},
}

var productsDeleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "Delete every product (asks twice)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		count, err := appInstance.Products.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}

		var flow service.DeleteAllFlow
		if !flow.Start(count) {
			fmt.Fprintln(out, "No products to delete.")
			return nil
		}

		in := bufio.NewReader(cmd.InOrStdin())
		for {
			if !confirmPrompt(in, out, flow.Prompt()) {
				flow.Cancel()
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
			confirm, done := flow.Confirm()
			if !done {
				continue
			}

			n, err := appInstance.Products.DeleteAll(ctx, confirm)
			if err != nil {
				return fmt.Errorf("failed to delete products: %w", err)
			}
			fmt.Fprintf(out, "✓ Successfully deleted %d products.\n", n)
			return nil
		}
	},
}

var productsImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import products from an .xlsx or .csv file",
	Long: `Import products from a spreadsheet. The first row must name the columns
name, wholesale_price, retail_price and base_unit; alt_unit, unit_ratio and
description are optional. Invalid rows are skipped and reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		rows, err := importer.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		result := appInstance.Products.Import(ctx, rows)

		fmt.Fprintf(out, "Successfully imported: %d products\n", result.SuccessCount)
		if result.FailureCount > 0 {
			fmt.Fprintf(out, "Failed to import: %d products\n", result.FailureCount)
			for _, f := range result.Failures {
				fmt.Fprintf(out, "  row %d (%s): %v\n", f.Index+2, f.Name, f.Err)
			}
		}
		return nil
	},
}

func init() {
	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsAddCmd)
	productsCmd.AddCommand(productsEditCmd)
	productsCmd.AddCommand(productsDeleteCmd)
	productsCmd.AddCommand(productsDeleteAllCmd)
	productsCmd.AddCommand(productsImportCmd)

	productsListCmd.Flags().StringP("search", "s", "", "Only show products matching this text")

	for _, c := range []*cobra.Command{productsAddCmd, productsEditCmd} {
		c.Flags().String("wholesale", "", "Wholesale price")
		c.Flags().String("retail", "", "Retail price")
		c.Flags().String("unit", "", "Base unit (e.g. pcs, kg)")
		c.Flags().String("alt-unit", "", "Alternate unit")
		c.Flags().String("ratio", "", "Base units per alternate unit (default 1)")
		c.Flags().String("description", "", "Description")
	}
	productsAddCmd.MarkFlagRequired("wholesale")
	productsAddCmd.MarkFlagRequired("retail")
	productsAddCmd.MarkFlagRequired("unit")
	productsEditCmd.Flags().String("name", "", "New name")

	productsDeleteCmd.Flags().BoolP("force", "f", false, "Delete without asking")
}
