package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"b2b-catalog/export"
	"b2b-catalog/pricing"
	"b2b-catalog/services"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Product commands"}
	cmd.AddCommand(newProductsListCmd(), newProductsExportCmd(), newProductsImportCmd())
	return cmd
}

func newProductsListCmd() *cobra.Command {
	var filter services.ProductFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				products, err := a.catalog.ListProducts(ctx, filter)
				if err != nil {
					return err
				}
				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"ID", "Code", "Name", "Category", "Price", "Stock", "Views"})
				for _, p := range products {
					t.AppendRow(table.Row{p.ID, p.Code, p.Name, p.CategoryID, pricing.Format(p.Price), p.Stock, p.Views})
				}
				t.SetColumnConfigs([]table.ColumnConfig{
					{Number: 5, Align: text.AlignRight},
					{Number: 6, Align: text.AlignRight},
					{Number: 7, Align: text.AlignRight},
				})
				t.AppendFooter(table.Row{"", "", "", "", "", "Total", len(products)})
				t.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&filter.CategoryID, "category", "", "only this category and its descendants")
	cmd.Flags().StringVarP(&filter.Search, "query", "q", "", "match name or code")
	return cmd
}

func newProductsExportCmd() *cobra.Command {
	var formatFlag, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export products as csv, xlsx, pdf or html",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				products, err := a.catalog.ListProducts(ctx, services.ProductFilter{})
				if err != nil {
					return err
				}
				categories, err := a.catalog.ListCategories(ctx)
				if err != nil {
					return err
				}
				var w io.Writer = cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				if err := export.WriteDocument(w, format, products, categories); err != nil {
					return err
				}
				if output != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d products to %s\n", len(products), output)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "csv", "csv, xlsx, pdf or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func newProductsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Create or replace products from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			products, err := export.ReadProductsCSV(f)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				n, err := a.catalog.ImportProducts(ctx, products)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d products\n", n)
				return nil
			})
		},
	}
}
