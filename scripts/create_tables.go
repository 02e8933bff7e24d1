package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	// Read environment to determine table prefix
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev" // Default to dev
	}

	prefix := os.Getenv("TABLE_PREFIX")
	if prefix == "" {
		prefix = env + "_"
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	// Create tables with environment-specific prefix
	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]schats (
			tree_item_id       VARCHAR(64) PRIMARY KEY,
			uid                VARCHAR(64) NOT NULL,
			name               VARCHAR(255) NOT NULL,
			parent_id          VARCHAR(64),
			file_collection_id VARCHAR(64) NOT NULL DEFAULT '',
			created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS %[1]schats_uid_parent_idx
			ON %[1]schats (uid, parent_id);

		CREATE TABLE IF NOT EXISTS %[1]sfolders (
			tree_item_id       VARCHAR(64) PRIMARY KEY,
			uid                VARCHAR(64) NOT NULL,
			name               VARCHAR(255) NOT NULL,
			parent_id          VARCHAR(64),
			file_collection_id VARCHAR(64) NOT NULL,
			matter_id          VARCHAR(64),
			description        TEXT,
			is_archived        BOOLEAN NOT NULL DEFAULT false,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS %[1]sfolders_uid_archived_idx
			ON %[1]sfolders (uid, is_archived);
	`, prefix)

	if _, err := db.Exec(createSQL); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	fmt.Printf("All tables created successfully (prefix: %s)\n", prefix)
}
