// Command migrate-create scaffolds a timestamped up/down SQL pair under
// db/migrations, ready for cmd/migrate to apply:
//
//	migrate-create -name add_team_colours
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"quiz-night/internal/db"
)

func main() {
	name := flag.String("name", "", "migration name, e.g. add_team_colours")
	flag.Parse()

	if *name == "" {
		flag.Usage()
		os.Exit(2)
	}
	if strings.ContainsAny(*name, " \t") {
		log.Fatal("migration name must not contain whitespace")
	}

	version := time.Now().UTC().Format("20060102150405")
	base := filepath.Join(db.MigrationsDir, version+"_"+*name)

	if err := os.MkdirAll(db.MigrationsDir, 0o755); err != nil {
		log.Fatalf("create migrations dir: %v", err)
	}
	for _, suffix := range []string{".up.sql", ".down.sql"} {
		path := base + suffix
		if err := createEmpty(path); err != nil {
			log.Fatalf("scaffold migration: %v", err)
		}
		log.Printf("created %s", path)
	}
}

func createEmpty(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "-- %s\n", filepath.Base(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
