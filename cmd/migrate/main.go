// Command migrate applies the CMS schema and seed files against a
// PostgreSQL database. Subcommands: up, down, seed, status.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"birlik.org/internal/migrate"
)

const usage = `usage: migrate [flags] <up|down|seed|status>

  up      apply pending migrations in filename order
  down    roll back the most recent migration
  seed    run seed files not yet recorded
  status  list applied migrations
`

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	var (
		dsn            = fs.String("dsn", os.Getenv("BIRLIK_PG_DSN"), "PostgreSQL DSN")
		migrationsPath = fs.String("migrations", "migrations/sql", "Path to SQL migrations")
		seedsPath      = fs.String("seeds", "migrations/seeds", "Path to SQL seeds")
		timeout        = fs.Duration("timeout", 30*time.Second, "Overall deadline for the run")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *dsn == "" {
		return fmt.Errorf("missing DSN: provide via -dsn or BIRLIK_PG_DSN")
	}
	cmd := fs.Arg(0)
	if cmd == "" {
		fs.Usage()
		return fmt.Errorf("missing subcommand")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	mgr := migrate.NewManager(db, *migrationsPath, *seedsPath)

	switch cmd {
	case "up":
		if err := mgr.Up(ctx); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		log.Println("migrations applied")
	case "down":
		if err := mgr.Down(ctx); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		log.Println("rolled back one migration")
	case "seed":
		if err := mgr.Seed(ctx); err != nil {
			return fmt.Errorf("migrate seed: %w", err)
		}
		log.Println("seeds applied")
	case "status":
		history, err := mgr.Status(ctx)
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		if len(history) == 0 {
			fmt.Println("(no migrations applied)")
			return nil
		}
		for _, item := range history {
			fmt.Println(item)
		}
	default:
		fs.Usage()
		return fmt.Errorf("unknown subcommand %q", cmd)
	}
	return nil
}
