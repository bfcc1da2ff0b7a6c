package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "stockledger/internal/errors"
	"stockledger/internal/model"
)

// fakeProductRepository implements the ProductRepository contract in memory:
// atomic floor-at-zero decrements, NotFound on absent increment/decrement,
// no-op delete, creation-ordered listing.
type fakeProductRepository struct {
	mu       sync.Mutex
	nextID   uint
	products map[uint]*model.Product
}

func newFakeProductRepository() *fakeProductRepository {
	return &fakeProductRepository{products: make(map[uint]*model.Product)}
}

func (f *fakeProductRepository) Create(ctx context.Context, product *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	product.ID = f.nextID
	stored := *product
	f.products[product.ID] = &stored
	return nil
}

func (f *fakeProductRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil, apperrors.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (f *fakeProductRepository) List(ctx context.Context) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Product, 0, len(f.products))
	for _, product := range f.products {
		out = append(out, *product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProductRepository) IncrementQuantity(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return apperrors.ErrProductNotFound
	}
	product.Quantity++
	return nil
}

func (f *fakeProductRepository) DecrementQuantity(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return apperrors.ErrProductNotFound
	}
	if product.Quantity > 0 {
		product.Quantity--
	}
	return nil
}

func (f *fakeProductRepository) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepository) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.products)), nil
}

func TestInventoryService_SeededLedgerScenario(t *testing.T) {
	ctx := context.Background()
	service := NewInventoryService(newFakeProductRepository())

	seeded, err := service.SeedIfEmpty(ctx)
	require.NoError(t, err)
	require.True(t, seeded)

	// Seeding again is a guarded no-op.
	seeded, err = service.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	products, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, []int{12, 8, 5}, []int{products[0].Quantity, products[1].Quantity, products[2].Quantity})

	first := products[0].ID

	// Seven decrements take the first product from 12 to 5.
	for i := 0; i < 7; i++ {
		require.NoError(t, service.Decrement(ctx, first))
	}
	got, err := service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, got[0].Quantity)

	// Five more reach the floor; further decrements stay at zero.
	for i := 0; i < 8; i++ {
		require.NoError(t, service.Decrement(ctx, first))
	}
	got, err = service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got[0].Quantity)

	// Increment and decrement are inverses away from the floor.
	second := got[1].ID
	require.NoError(t, service.Increment(ctx, second))
	require.NoError(t, service.Decrement(ctx, second))
	got, err = service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, got[1].Quantity)
}

func TestInventoryService_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	service := NewInventoryService(newFakeProductRepository())

	product, err := service.Add(ctx, "Cable", 2)
	require.NoError(t, err)

	assert.NoError(t, service.Delete(ctx, product.ID))
	assert.NoError(t, service.Delete(ctx, product.ID))

	// The deleted row no longer accepts mutations.
	assert.Equal(t, apperrors.ErrProductNotFound, service.Increment(ctx, product.ID))
}
