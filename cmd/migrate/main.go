package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"gig-market/internal/app"
	"gig-market/internal/config"
	"gig-market/internal/database/migration"
	"gig-market/internal/database/seeder"
	"gig-market/migrations"
)

func main() {
	seed := flag.Bool("seed", true, "run seeders after migrations")
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	r := migration.Runner{FS: migrations.FS, Logger: log.Default()}
	if d := strings.TrimSpace(stringOr(*dir, cfg.App.MigrationsDir)); d != "" {
		r = migration.Runner{Dir: d, Logger: log.Default()}
	}

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()
	if err := r.Run(migCtx, c.DB.SQLDB()); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Printf("migrations applied")

	if !*seed {
		return
	}

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer seedCancel()
	if err := (seeder.Runner{Seeders: seeder.Defaults(cfg), Logger: log.Default()}).Run(seedCtx, c.DB); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("seeders applied")
}

func stringOr(v, def string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return def
}
