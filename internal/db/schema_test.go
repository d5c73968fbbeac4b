package db

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm/schema"

	"github.com/ngbilling/ngbilling/internal/models"
)

// createTableBlock extracts the body of CREATE TABLE <name> (...) from the
// migration file.
func createTableBlock(t *testing.T, sql, table string) string {
	t.Helper()
	marker := fmt.Sprintf("CREATE TABLE %s (", table)
	start := strings.Index(sql, marker)
	if start < 0 {
		t.Fatalf("no CREATE TABLE for %s in migration", table)
	}
	rest := sql[start+len(marker):]
	end := strings.Index(rest, ");")
	if end < 0 {
		t.Fatalf("unterminated CREATE TABLE for %s", table)
	}
	return rest[:end]
}

// Both migration paths must produce the same schema: every column gorm
// writes for a model has to exist in the SQL migration too.
func TestMigrationCoversModelColumns(t *testing.T) {
	raw, err := os.ReadFile("../../migrations/0001_init.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	sql := string(raw)

	cache := &sync.Map{}
	for _, m := range models.All() {
		s, err := schema.Parse(m, cache, schema.NamingStrategy{})
		if err != nil {
			t.Fatalf("parse schema for %T: %v", m, err)
		}
		block := createTableBlock(t, sql, s.Table)
		for _, column := range s.DBNames {
			if !strings.Contains(block, column) {
				t.Errorf("table %s: column %s missing from migration", s.Table, column)
			}
		}
	}
}
