package main

import (
	"context"
	"fmt"

	"b2b-catalog/config"
	"b2b-catalog/logger"
	"b2b-catalog/repository"
	"b2b-catalog/services"

	"github.com/spf13/cobra"
)

// app holds the services a command runs against.
type app struct {
	catalog services.ICatalogService
	orders  services.IOrderService
	close   func() error
}

// opener builds the services; tests swap it for an in-memory store.
var opener = openApp

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(&logger.LogConfig{Level: "warn", Format: "text", Output: "stdout"}); err != nil {
		return nil, err
	}
	store, closeStore, err := repository.OpenStateStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newApp(ctx, store, closeStore)
}

func newApp(ctx context.Context, store repository.IStateStore, closeStore func() error) (*app, error) {
	catalogRepo, err := repository.NewCatalogRepository(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	orderRepo, err := repository.NewOrderRepository(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	return &app{
		catalog: services.NewCatalogService(catalogRepo),
		orders:  services.NewOrderService(orderRepo, services.NewLogNotifier()),
		close:   closeStore,
	}, nil
}

// withApp opens the store around fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := opener(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Inspect and maintain the B2B catalog store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCategoriesCmd(), newProductsCmd(), newOrdersCmd())
	return root
}
