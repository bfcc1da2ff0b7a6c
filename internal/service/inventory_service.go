package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "stockledger/internal/errors"
	"stockledger/internal/model"
	"stockledger/internal/repository"
)

// seedProducts is the first-run inventory, created once when the table is empty.
var seedProducts = []model.Product{
	{Name: "Laptop", Quantity: 12},
	{Name: "Monitor", Quantity: 8},
	{Name: "Keyboard", Quantity: 5},
}

// InventoryService handles stock ledger operations.
type InventoryService interface {
	List(ctx context.Context) ([]model.Product, error)
	Add(ctx context.Context, name string, initialQuantity int) (*model.Product, error)
	Increment(ctx context.Context, id uint) error
	Decrement(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	SeedIfEmpty(ctx context.Context) (bool, error)
}

type inventoryService struct {
	repo repository.ProductRepository
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(repo repository.ProductRepository) InventoryService {
	return &inventoryService{repo: repo}
}

// List returns all products in creation order.
func (s *inventoryService) List(ctx context.Context) ([]model.Product, error) {
	return s.repo.List(ctx)
}

// Add creates a product. The name must be non-empty after trimming; a
// negative initial quantity is clamped to zero.
func (s *inventoryService) Add(ctx context.Context, name string, initialQuantity int) (*model.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrInvalidProductName
	}
	if initialQuantity < 0 {
		initialQuantity = 0
	}

	product := &model.Product{
		Name:     name,
		Quantity: initialQuantity,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// Increment adds one to a product's quantity.
func (s *inventoryService) Increment(ctx context.Context, id uint) error {
	return s.repo.IncrementQuantity(ctx, id)
}

// Decrement subtracts one from a product's quantity, flooring at zero.
func (s *inventoryService) Decrement(ctx context.Context, id uint) error {
	return s.repo.DecrementQuantity(ctx, id)
}

// Delete removes a product; deleting an absent id is a no-op.
func (s *inventoryService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// SeedIfEmpty populates the first-run inventory when the table is empty.
// The emptiness guard makes it safe to run on every boot.
func (s *inventoryService) SeedIfEmpty(ctx context.Context) (bool, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	for _, seed := range seedProducts {
		product := seed
		if err := s.repo.Create(ctx, &product); err != nil {
			return false, fmt.Errorf("seed product %q: %w", product.Name, err)
		}
	}
	return true, nil
}
