package testhelpers

import (
	"context"
	"testing"
)

// TruncateAll removes all rows from the application tables so each test
// starts from a clean slate. Order matters only for readability; there are
// no foreign keys between these tables.
func TruncateAll(t *testing.T, tdb *TestDB) {
	t.Helper()

	ctx := context.Background()
	for _, table := range []string{"audit_logs", "products", "users"} {
		if _, err := tdb.DB.Pool.Exec(ctx, "TRUNCATE TABLE "+table); err != nil {
			t.Fatalf("Failed to truncate %s: %v", table, err)
		}
	}
}
