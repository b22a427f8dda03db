// Command seed-db loads a catalog items file into the database. The input
// is a JSON array; files ending in .gz are decompressed on the fly.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/storelite/ims/internal/domain/item"
	"github.com/storelite/ims/internal/storage/postgres"
)

type itemJSON struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
	Stock    int64           `json:"stock"`
}

func main() {
	var (
		databaseURL string
		itemsFile   string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&itemsFile, "items-file", "db/seed/items.json", "path to items JSON file (.json or .json.gz)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, databaseURL, itemsFile); err != nil {
		slog.Error("seeding failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, databaseURL, itemsFile string) error {
	entries, err := readItems(itemsFile)
	if err != nil {
		return errors.Wrap(err, "read items file")
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewItemRepository(pool)
	seededAt := time.Now().UTC()

	var seeded int
	for _, e := range entries {
		it := &item.Item{
			ID:        uuid.New().String(),
			Name:      e.Name,
			Category:  item.Category(e.Category),
			Unit:      item.Unit(e.Unit),
			Price:     e.Price,
			Stock:     e.Stock,
			Active:    true,
			CreatedAt: seededAt,
			UpdatedAt: seededAt,
		}
		if err := it.Validate(); err != nil {
			return errors.Wrapf(err, "item %q", e.Name)
		}
		if err := repo.Create(ctx, it); err != nil {
			return errors.Wrapf(err, "item %q", e.Name)
		}
		seeded++
	}

	slog.Info("seeding complete", "items", seeded, "file", itemsFile)
	return nil
}

func readItems(path string) ([]itemJSON, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip stream")
		}
		defer gz.Close()
		r = gz
	}

	var entries []itemJSON
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, errors.Wrap(err, "decode JSON")
	}
	return entries, nil
}
