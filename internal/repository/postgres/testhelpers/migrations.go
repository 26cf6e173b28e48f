package testhelpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ApplySchema applies the schema file to the test database.
// Statements run one by one: the pgx driver does not accept
// multi-statement strings in a single Exec.
func ApplySchema(db *sqlx.DB, schemaPath string) error {
	content, err := os.ReadFile(filepath.Clean(schemaPath))
	if err != nil {
		return fmt.Errorf("read schema %s: %w", schemaPath, err)
	}

	for _, stmt := range strings.Split(string(content), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema %s: %w", schemaPath, err)
		}
	}

	return nil
}
