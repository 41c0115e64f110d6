package main

import (
	"context"
	"fmt"
	"os"

	"b2b-catalog/export"
	"b2b-catalog/models"
	"b2b-catalog/pricing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "orders", Short: "Order commands"}
	cmd.AddCommand(newOrdersListCmd(), newOrdersInvoiceCmd())
	return cmd
}

func newOrdersListCmd() *cobra.Command {
	var userID, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				var orders []models.Order
				var err error
				if userID != "" {
					orders, err = a.orders.OrdersByUser(ctx, userID)
				} else {
					orders, err = a.orders.ListOrders(ctx, models.OrderStatus(status))
				}
				if err != nil {
					return err
				}
				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"ID", "Customer", "Company", "Items", "Total", "Status", "Created"})
				for _, o := range orders {
					if userID != "" && status != "" && string(o.Status) != status {
						continue
					}
					t.AppendRow(table.Row{
						o.ID, o.User.Email, o.User.Company, len(o.Products),
						pricing.Format(o.TotalAmount), o.Status, o.CreatedAt.Format("2006-01-02 15:04"),
					})
				}
				t.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "only orders of this user id")
	cmd.Flags().StringVar(&status, "status", "", "pending, approved, rejected or completed")
	return cmd
}

func newOrdersInvoiceCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "invoice <order-id>",
		Short: "Write the PDF invoice of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				order, err := a.orders.GetOrder(ctx, args[0])
				if err != nil {
					return err
				}
				if output == "" {
					output = fmt.Sprintf("fatura-%s.pdf", order.ID)
				}
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := export.WriteInvoicePDF(f, *order); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "target file (default fatura-<id>.pdf)")
	return cmd
}
