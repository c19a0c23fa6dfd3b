// Command migrate manages the intake ledger schema. The ledger only
// backs staged documents and pending upload reservations; financial
// records themselves live behind the core-banking API and are not
// migrated here.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"lenflow/internal/config"
)

const usage = `usage: migrate <command>

Commands:
  up         apply all pending intake-ledger migrations
  down       revert all intake-ledger migrations
  steps N    apply N migrations (negative N reverts)
  force V    mark the ledger at version V without running anything
  version    print the current ledger schema version

The database is taken from the LENFLOW_DB_* environment.`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}
	defer m.Close()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	switch cmd := os.Args[1]; cmd {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("ledger migration up failed: %v", err)
		}
		log.Println("intake ledger is up to date")

	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("ledger migration down failed: %v", err)
		}
		log.Println("intake ledger migrations reverted")

	case "steps":
		if len(os.Args) < 3 {
			log.Fatal("steps requires a number argument")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("invalid steps argument: %v", err)
		}
		if err := m.Steps(n); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("ledger migration steps failed: %v", err)
		}
		log.Printf("applied %d ledger migration steps", n)

	case "force":
		if len(os.Args) < 3 {
			log.Fatal("force requires a version argument")
		}
		v, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("invalid force argument: %v", err)
		}
		if err := m.Force(v); err != nil {
			log.Fatalf("forcing ledger version failed: %v", err)
		}
		log.Printf("intake ledger forced to version %d", v)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("failed to get ledger version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n\n%s\n", cmd, usage)
		os.Exit(1)
	}
}
