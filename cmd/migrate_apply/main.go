package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"warzone/internal/db"
	"warzone/internal/logger"
	"warzone/internal/migrations"
)

func main() {
	apply := flag.Bool("apply", false, "apply migrations")
	flag.Parse()

	files, err := migrations.Files()
	if err != nil {
		logger.Fatal("list migrations", "error", err)
	}
	if !*apply {
		for _, name := range files {
			fmt.Println(name)
		}
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Open(ctx, dsn)
	if err != nil {
		logger.Fatal("connect", "error", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, migrations.FS); err != nil {
		logger.Fatal("migrate", "error", err)
	}
	for _, name := range files {
		fmt.Printf("applied %s\n", name)
	}
}
