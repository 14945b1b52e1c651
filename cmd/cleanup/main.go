// Cleanup deletes previously-inserted duplicate trade rows by id, in bounded
// chunks, so historical dedup mistakes can be repaired without touching the
// rest of the store. Safe to re-run: deleting an already-deleted id is a
// no-op. Ids come from a file configured in .cleanup.yaml or from stdin.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"trade_recon/internal/config"
	ingest "trade_recon/internal/modules/ingest/service"
	"trade_recon/internal/modules/ingest/service/pg"
	"trade_recon/pkg/db"
	"trade_recon/pkg/logger"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

func readIDs(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" || strings.HasPrefix(id, "#") {
			continue
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan ids")
	}
	return ids, nil
}

func run() error {
	viper.SetConfigName(".cleanup")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetDefault("ids_file", "")
	if err := viper.ReadInConfig(); err != nil {
		// config file is optional, stdin mode works without it
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrap(err, "read config")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load env config")
	}

	var src io.Reader = os.Stdin
	if f := viper.GetString("ids_file"); f != "" {
		file, err := os.Open(f)
		if err != nil {
			return errors.Wrap(err, "open ids file")
		}
		defer func() { _ = file.Close() }()
		src = file
	}

	ids, err := readIDs(src)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("nothing to delete")
		return nil
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.DB})
	if err != nil {
		return errors.Wrap(err, "create pool")
	}
	manager := db.NewPgTxManager(pool)
	defer manager.Close()

	svc := ingest.NewIngest(pg.NewTrades(manager), cfg.DeleteChunkSize)
	if err := svc.DeleteByIDs(ctx, ids); err != nil {
		return errors.Wrap(err, "delete")
	}

	fmt.Printf("submitted %d ids for deletion in chunks of %d\n", len(ids), cfg.DeleteChunkSize)
	return nil
}

func main() {
	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.SetServiceName("trade_recon_cleanup")

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
