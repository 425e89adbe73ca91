//go:build integration

package testhelpers

import (
	"context"
	"testing"
)

func TestTestDB_MigrationsApplied(t *testing.T) {
	tdb := GetTestDB(t)
	ctx := context.Background()

	for _, table := range []string{"users", "products", "audit_logs"} {
		var exists bool
		err := tdb.DB.Pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)",
			table).Scan(&exists)
		if err != nil {
			t.Fatalf("failed to check table %s: %v", table, err)
		}
		if !exists {
			t.Errorf("migrations did not create table %s", table)
		}
	}
}

func TestTestDB_SharedAcrossCalls(t *testing.T) {
	first := GetTestDB(t)
	second := GetTestDB(t)

	if first != second {
		t.Error("GetTestDB returned different instances; the container must be shared")
	}
}
