package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stocktrail-io/stocktrail/pkg/models"
	"github.com/stocktrail-io/stocktrail/pkg/repositories"
)

// ProductInput carries the mutable fields of a product. Nil pointers are
// stored as NULL.
type ProductInput struct {
	Referencia *string
	Cor        *string
	X          *int
	Y          *int
	Rack       *string
	Acab       *string
	Obs        *string
	Marked     bool
}

// ProductService provides product CRUD with audit recording. Every
// mutation flows through here; there is no other write path to products.
type ProductService interface {
	List(ctx context.Context) ([]*models.Product, error)
	Create(ctx context.Context, input *ProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input *ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo   repositories.ProductRepository
	audit  AuditService
	logger *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, audit AuditService, logger *zap.Logger) ProductService {
	return &productService{
		repo:   repo,
		audit:  audit,
		logger: logger.Named("product-service"),
	}
}

var _ ProductService = (*productService)(nil)

func (s *productService) List(ctx context.Context) ([]*models.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

// Create inserts a product and records a CREATE audit entry.
func (s *productService) Create(ctx context.Context, input *ProductInput) (*models.Product, error) {
	product := input.toProduct()

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.audit.RecordCreate(ctx, models.AuditEntityTypeProduct, product.ID, product.AuditState())

	return product, nil
}

// Update overwrites a product's fields and records an UPDATE audit entry
// (skipped by the pipeline when nothing actually changed).
func (s *productService) Update(ctx context.Context, id uuid.UUID, input *ProductInput) (*models.Product, error) {
	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	product := input.toProduct()
	product.ID = id
	product.CreatedAt = before.CreatedAt

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.audit.RecordUpdate(ctx, models.AuditEntityTypeProduct, id, before.AuditState(), product.AuditState())

	return product, nil
}

// Delete removes a product and records a DELETE audit entry.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.audit.RecordDelete(ctx, models.AuditEntityTypeProduct, id, before.AuditState())

	return nil
}

func (in *ProductInput) toProduct() *models.Product {
	return &models.Product{
		Referencia: in.Referencia,
		Cor:        in.Cor,
		X:          in.X,
		Y:          in.Y,
		Rack:       in.Rack,
		Acab:       in.Acab,
		Obs:        in.Obs,
		Marked:     in.Marked,
	}
}
