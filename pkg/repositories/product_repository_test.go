//go:build integration

package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail-io/stocktrail/pkg/apperrors"
	"github.com/stocktrail-io/stocktrail/pkg/models"
	"github.com/stocktrail-io/stocktrail/pkg/testhelpers"
)

func setupProductRepoTest(t *testing.T) ProductRepository {
	tdb := testhelpers.GetTestDB(t)
	testhelpers.TruncateAll(t, tdb)
	return NewProductRepository(tdb.DB)
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func TestProductRepository_CreateAndGet(t *testing.T) {
	repo := setupProductRepoTest(t)
	ctx := context.Background()

	product := &models.Product{
		Referencia: strp("REF-1"),
		Cor:        strp("azul"),
		X:          intp(3),
		Y:          intp(7),
		Rack:       strp("A1"),
		Marked:     true,
	}

	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if product.ID == uuid.Nil {
		t.Fatal("Create did not assign an id")
	}

	got, err := repo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if *got.Referencia != "REF-1" || *got.Cor != "azul" {
		t.Errorf("text fields not round-tripped: %+v", got)
	}
	if *got.X != 3 || *got.Y != 7 {
		t.Errorf("coordinates not round-tripped: x=%v y=%v", got.X, got.Y)
	}
	if !got.Marked {
		t.Error("marked flag not round-tripped")
	}
	// Absent optional fields come back as NULL.
	if got.Acab != nil || got.Obs != nil {
		t.Errorf("expected nil acab/obs, got %v / %v", got.Acab, got.Obs)
	}
}

func TestProductRepository_GetMissing(t *testing.T) {
	repo := setupProductRepoTest(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestProductRepository_ListNewestFirst(t *testing.T) {
	repo := setupProductRepoTest(t)
	ctx := context.Background()

	first := &models.Product{Referencia: strp("REF-OLD")}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second := &models.Product{Referencia: strp("REF-NEW")}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	products, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("List() returned %d products, want 2", len(products))
	}
	if *products[0].Referencia != "REF-NEW" {
		t.Errorf("first item = %s, want REF-NEW", *products[0].Referencia)
	}
}

func TestProductRepository_Update(t *testing.T) {
	repo := setupProductRepoTest(t)
	ctx := context.Background()

	product := &models.Product{Referencia: strp("REF-1"), X: intp(1)}
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	product.Referencia = strp("REF-2")
	product.X = nil
	product.Marked = true
	if err := repo.Update(ctx, product); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if *got.Referencia != "REF-2" {
		t.Errorf("referencia = %s, want REF-2", *got.Referencia)
	}
	if got.X != nil {
		t.Errorf("x = %v, want nil after clearing", got.X)
	}
	if !got.Marked {
		t.Error("marked flag not updated")
	}
}

func TestProductRepository_UpdateMissing(t *testing.T) {
	repo := setupProductRepoTest(t)

	err := repo.Update(context.Background(), &models.Product{ID: uuid.New()})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestProductRepository_Delete(t *testing.T) {
	repo := setupProductRepoTest(t)
	ctx := context.Background()

	product := &models.Product{Referencia: strp("REF-DEL")}
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := repo.GetByID(ctx, product.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestProductRepository_DeleteMissing(t *testing.T) {
	repo := setupProductRepoTest(t)

	err := repo.Delete(context.Background(), uuid.New())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
