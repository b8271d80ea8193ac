package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
)

type memorySupplierRepo struct {
	repository.SupplierRepository
	suppliers map[uuid.UUID]model.Supplier
}

func (m *memorySupplierRepo) CreateSupplier(_ context.Context, s model.Supplier) error {
	m.suppliers[s.ID] = s
	return nil
}

func (m *memorySupplierRepo) UpdateSupplier(_ context.Context, s model.Supplier) error {
	m.suppliers[s.ID] = s
	return nil
}

func (m *memorySupplierRepo) GetSupplier(_ context.Context, id uuid.UUID) (model.Supplier, error) {
	s, ok := m.suppliers[id]
	if !ok {
		return model.Supplier{}, apperr.ErrSupplierNotFound
	}
	return s, nil
}

func TestSupplierService(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create a supplier with a time ordered id", func(t *testing.T) {
		repo := &memorySupplierRepo{suppliers: map[uuid.UUID]model.Supplier{}}
		svc := NewSupplierService(repo)

		s, err := svc.CreateSupplier(ctx, SupplierParams{FirstName: "Ana", LastName: "Rojas", Phone: "70000000"})
		require.NoError(t, err)

		assert.Equal(t, uuid.Version(7), s.ID.Version())
		assert.Equal(t, s, repo.suppliers[s.ID])
		assert.Equal(t, s.CreatedAt, s.UpdatedAt)
	})

	t.Run("Should update fields and keep the creation time", func(t *testing.T) {
		repo := &memorySupplierRepo{suppliers: map[uuid.UUID]model.Supplier{}}
		svc := NewSupplierService(repo)

		created, err := svc.CreateSupplier(ctx, SupplierParams{FirstName: "Ana", LastName: "Rojas"})
		require.NoError(t, err)

		updated, err := svc.UpdateSupplier(ctx, created.ID, SupplierParams{FirstName: "Ana", LastName: "Rojas", Phone: "71111111"})
		require.NoError(t, err)

		assert.Equal(t, "71111111", updated.Phone)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("Should report unknown suppliers", func(t *testing.T) {
		svc := NewSupplierService(&memorySupplierRepo{suppliers: map[uuid.UUID]model.Supplier{}})

		_, err := svc.UpdateSupplier(ctx, uuid.New(), SupplierParams{FirstName: "x"})
		assert.ErrorIs(t, err, apperr.ErrSupplierNotFound)
	})
}
