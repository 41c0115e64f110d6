package main

import (
	"context"
	"fmt"
	"io"

	"b2b-catalog/models"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/spf13/cobra"
)

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "categories", Short: "Category commands"}
	cmd.AddCommand(&cobra.Command{
		Use:   "tree",
		Short: "Print the category tree with product counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				tree, err := a.catalog.CategoryTree(ctx)
				if err != nil {
					return err
				}
				counts := map[string]int{}
				for _, root := range tree {
					if err := collectCounts(ctx, a, root, counts); err != nil {
						return err
					}
				}
				renderTree(cmd.OutOrStdout(), tree, counts)
				return nil
			})
		},
	})
	return cmd
}

func collectCounts(ctx context.Context, a *app, c *models.Category, counts map[string]int) error {
	stats, err := a.catalog.CategoryStats(ctx, c.ID)
	if err != nil {
		return err
	}
	counts[c.ID] = stats.TotalProducts
	for _, child := range c.Children {
		if err := collectCounts(ctx, a, child, counts); err != nil {
			return err
		}
	}
	return nil
}

func renderTree(w io.Writer, tree []*models.Category, counts map[string]int) {
	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedLight)
	var walk func(nodes []*models.Category)
	walk = func(nodes []*models.Category) {
		for _, c := range nodes {
			l.AppendItem(fmt.Sprintf("%s [%s] (%d)", c.Name, c.ID, counts[c.ID]))
			if len(c.Children) > 0 {
				l.Indent()
				walk(c.Children)
				l.UnIndent()
			}
		}
	}
	walk(tree)
	fmt.Fprintln(w, l.Render())
}
