package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
)

type statsSales struct {
	repository.SaleRepository
	count  int
	recent []model.SaleRecord
	limit  int
}

func (s *statsSales) CountSales(context.Context) (int, error) { return s.count, nil }

func (s *statsSales) ListSalesPaginated(_ context.Context, limit, _ int) ([]model.SaleRecord, error) {
	s.limit = limit
	return s.recent, nil
}

type statsTransfers struct {
	repository.TransferRepository
	recent []model.TransferRecord
}

func (s *statsTransfers) ListTransfersPaginated(context.Context, int, int) ([]model.TransferRecord, error) {
	return s.recent, nil
}

type statsProducts struct {
	repository.ProductRepository
	count int
	err   error
}

func (s *statsProducts) CountActiveProducts(context.Context) (int, error) { return s.count, s.err }

type statsEmployees struct {
	repository.EmployeeRepository
	count int
}

func (s *statsEmployees) CountEmployees(context.Context) (int, error) { return s.count, nil }

type statsSuppliers struct {
	repository.SupplierRepository
	count int
}

func (s *statsSuppliers) CountSuppliers(context.Context) (int, error) { return s.count, nil }

func TestDashboardService_GetStats(t *testing.T) {
	t.Run("Should collect counts and the five most recent records", func(t *testing.T) {
		sales := &statsSales{count: 12, recent: make([]model.SaleRecord, 5)}
		transfers := &statsTransfers{recent: make([]model.TransferRecord, 2)}
		svc := NewDashboardService(sales, transfers, &statsProducts{count: 40}, &statsEmployees{count: 3}, &statsSuppliers{count: 4})

		stats, err := svc.GetStats(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 12, stats.TotalSales)
		assert.Equal(t, 40, stats.TotalProducts)
		assert.Equal(t, 3, stats.TotalEmployees)
		assert.Equal(t, 4, stats.TotalSuppliers)
		assert.Len(t, stats.RecentSales, 5)
		assert.Len(t, stats.RecentTransfers, 2)
		assert.Equal(t, dashboardRecent, sales.limit)
	})

	t.Run("Should fail when a count fails", func(t *testing.T) {
		boom := errors.New("connection reset")
		svc := NewDashboardService(&statsSales{}, &statsTransfers{}, &statsProducts{err: boom}, &statsEmployees{}, &statsSuppliers{})

		_, err := svc.GetStats(context.Background())
		assert.ErrorIs(t, err, boom)
	})
}
