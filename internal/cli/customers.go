package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andy/invoicer/internal/domain"
)

var customersCmd = &cobra.Command{
	Use:     "customers",
	Aliases: []string{"customer"},
	Short:   "Manage customers",
	Long:    `List, add, edit, and delete customers.`,
}

var customersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()
		term, _ := cmd.Flags().GetString("search")

		customers, err := appInstance.Customers.Search(ctx, term)
		if err != nil {
			return fmt.Errorf("failed to list customers: %w", err)
		}

		if len(customers) == 0 {
			fmt.Fprintln(out, "No customers found")
			return nil
		}

		fmt.Fprintf(out, "%-5s %-25s %-30s %-15s %-25s\n", "ID", "Name", "Address", "Phone", "Email")
		fmt.Fprintln(out, "--------------------------------------------------------------------------------------------------------")

		for _, c := range customers {
			fmt.Fprintf(out, "%-5d %-25s %-30s %-15s %-25s\n",
				c.ID,
				truncate(c.Name, 25),
				truncate(c.Address, 30),
				truncate(c.Phone, 15),
				truncate(c.Email, 25),
			)
		}

		fmt.Fprintf(out, "\nTotal: %d customer(s)\n", len(customers))
		return nil
	},
}

var customersAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new customer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		address, _ := cmd.Flags().GetString("address")
		phone, _ := cmd.Flags().GetString("phone")
		email, _ := cmd.Flags().GetString("email")

		customer, err := appInstance.Customers.Create(ctx, domain.CustomerFields{
			Name:    args[0],
			Address: address,
			Phone:   phone,
			Email:   email,
		})
		if err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Customer created: %s (ID: %d)\n", customer.Name, customer.ID)
		return nil
	},
}

var customersEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an existing customer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid customer ID: %w", err)
		}

		customer, err := appInstance.Customers.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get customer: %w", err)
		}

		fields := domain.CustomerFields{
			Name:    customer.Name,
			Address: customer.Address,
			Phone:   customer.Phone,
			Email:   customer.Email,
		}
		// Update fields if flags provided
		if cmd.Flags().Changed("name") {
			fields.Name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("address") {
			fields.Address, _ = cmd.Flags().GetString("address")
		}
		if cmd.Flags().Changed("phone") {
			fields.Phone, _ = cmd.Flags().GetString("phone")
		}
		if cmd.Flags().Changed("email") {
			fields.Email, _ = cmd.Flags().GetString("email")
		}

		customer, err = appInstance.Customers.Update(ctx, id, fields)
		if err != nil {
			return fmt.Errorf("failed to update customer: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Customer updated: %s\n", customer.Name)
		return nil
	},
}

var customersDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a customer",
	Long:  `Delete a customer. Invoices already generated for the customer are kept.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid customer ID: %w", err)
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force && !confirmPrompt(bufio.NewReader(cmd.InOrStdin()), out, "Are you sure you want to delete this customer?") {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}

		if err := appInstance.Customers.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete customer: %w", err)
		}

		fmt.Fprintf(out, "✓ Customer deleted (ID: %d)\n", id)
		return nil
	},
}

func init() {
	customersCmd.AddCommand(customersListCmd)
	customersCmd.AddCommand(customersAddCmd)
	customersCmd.AddCommand(customersEditCmd)
	customersCmd.AddCommand(customersDeleteCmd)

	customersListCmd.Flags().StringP("search", "s", "", "Only show customers matching this text")

	customersAddCmd.Flags().String("address", "", "Customer address")
	customersAddCmd.Flags().String("phone", "", "Customer phone")
	customersAddCmd.Flags().String("email", "", "Customer email")

	customersEditCmd.Flags().String("name", "", "New name")
	customersEditCmd.Flags().String("address", "", "New address")
	customersEditCmd.Flags().String("phone", "", "New phone")
	customersEditCmd.Flags().String("email", "", "New email")

	customersDeleteCmd.Flags().BoolP("force", "f", false, "Delete without asking")
}
