// Command mcp-server exposes the StoreLite service as MCP tools over
// stdio, for use by LLM agents. It shares the service facade with the REST
// API, so both paths behave identically.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mark3labs/mcp-go/server"

	appkg "github.com/storelite/ims/internal/app"
	"github.com/storelite/ims/internal/domain/bill"
	"github.com/storelite/ims/internal/domain/item"
	"github.com/storelite/ims/internal/mcptools"
	"github.com/storelite/ims/internal/service"
	"github.com/storelite/ims/internal/storage/memory"
	"github.com/storelite/ims/internal/storage/postgres"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("mcp-server failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := appkg.LoadConfig()
	if err != nil {
		return err
	}

	var (
		items item.Repository
		bills bill.Repository
	)
	switch cfg.Storage {
	case appkg.StorageMemory:
		store := memory.NewStore()
		items = store.Items()
		bills = store.Bills()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return err
		}

		items = postgres.NewItemRepository(pool)
		bills = postgres.NewBillRepository(pool, cfg.LockTimeout)
	}

	svc := service.New(items, bills, cfg.MaxCartLines)

	s := server.NewMCPServer("storelite", version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	mcptools.Register(s, svc)

	return server.ServeStdio(s)
}
