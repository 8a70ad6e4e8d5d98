package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/dealdesk/dealdesk/internal/config"
)

type migrationFile struct {
	version int
	name    string
	path    string
	kind    string // up or down
}

func main() {
	mode := flag.String("mode", "up", "migration mode: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseURL())
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	if err := ensureSchemaMigrations(db); err != nil {
		log.Fatalf("failed to ensure schema_migrations: %v", err)
	}

	files, err := loadMigrationFiles(cfg.Database.MigrationsPath)
	if err != nil {
		log.Fatalf("failed to load migrations: %v", err)
	}

	switch strings.ToLower(*mode) {
	case "up":
		if err := applyUp(db, files); err != nil {
			log.Fatalf("migration up failed: %v", err)
		}
		log.Println("Migration up completed successfully")
	case "down":
		if err := applyDown(db, files); err != nil {
			log.Fatalf("migration down failed: %v", err)
		}
		log.Println("Migration down completed successfully")
	default:
		log.Fatalf("unknown mode: %s", *mode)
	}
}

func ensureSchemaMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	return err
}

func loadMigrationFiles(dir string) ([]migrationFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []migrationFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".sql") {
			continue
		}

		kind := "up"
		if strings.HasSuffix(strings.ToLower(name), ".down.sql") {
			kind = "down"
		}

		ver, migName, err := parseVersionAndName(name)
		if err != nil {
			log.Printf("skip migration without version prefix: %s", name)
			continue
		}

		files = append(files, migrationFile{
			version: ver,
			name:    migName,
			path:    filepath.Join(dir, name),
			kind:    kind,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].version < files[j].version })
	return files, nil
}

func parseVersionAndName(filename string) (int, string, error) {
	// expected: 0001_init.sql or 0002_add_notifications.up.sql
	parts := strings.SplitN(filename, "_", 2)
	if len(parts) < 2 {
		return 0, "", fmt.Errorf("invalid filename: %s", filename)
	}
	ver, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", fmt.Errorf("invalid version prefix: %s", filename)
	}
	return ver, parts[1], nil
}

func alreadyApplied(db *sql.DB, version int) (bool, error) {
	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version=$1)", version).Scan(&exists)
	return exists, err
}

func applyUp(db *sql.DB, files []migrationFile) error {
	for _, f := range files {
		if f.kind != "up" {
			continue
		}
		applied, err := alreadyApplied(db, f.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		log.Printf("Applying up %04d: %s", f.version, f.name)
		if err := execSQLFile(db, f.path); err != nil {
			return fmt.Errorf("failed applying %s: %w", f.path, err)
		}
		if _, err := db.Exec("INSERT INTO schema_migrations(version, name, applied_at) VALUES($1,$2,$3)",
			f.version, f.name, time.Now()); err != nil {
			return err
		}
	}
	return nil
}

func applyDown(db *sql.DB, files []migrationFile) error {
	var downs []migrationFile
	for _, f := range files {
		if f.kind == "down" {
			downs = append(downs, f)
		}
	}
	sort.Slice(downs, func(i, j int) bool { return downs[i].version > downs[j].version })

	for _, f := range downs {
		applied, err := alreadyApplied(db, f.version)
		if err != nil {
			return err
		}
		if !applied {
			continue
		}

		log.Printf("Reverting down %04d: %s", f.version, f.name)
		if err := execSQLFile(db, f.path); err != nil {
			return fmt.Errorf("failed reverting %s: %w", f.path, err)
		}
		if _, err := db.Exec("DELETE FROM schema_migrations WHERE version=$1", f.version); err != nil {
			return err
		}
	}
	return nil
}

func execSQLFile(db *sql.DB, path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = db.Exec(string(contents))
	return err
}
