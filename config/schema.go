package config

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema applies the idempotent table definitions shared by every service.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func MustEnsureSchema(db *sql.DB) {
	if err := EnsureSchema(db); err != nil {
		log.Fatal(err)
	}
}
