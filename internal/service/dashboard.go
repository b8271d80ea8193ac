package service

import (
	"context"
	"fmt"

	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
)

const dashboardRecent = 5

type DashboardService interface {
	GetStats(ctx context.Context) (model.DashboardStats, error)
}

type dashboardService struct {
	saleRepo     repository.SaleRepository
	transferRepo repository.TransferRepository
	productRepo  repository.ProductRepository
	employeeRepo repository.EmployeeRepository
	supplierRepo repository.SupplierRepository
}

func NewDashboardService(
	saleRepo repository.SaleRepository,
	transferRepo repository.TransferRepository,
	productRepo repository.ProductRepository,
	employeeRepo repository.EmployeeRepository,
	supplierRepo repository.SupplierRepository,
) DashboardService {
	return &dashboardService{
		saleRepo:     saleRepo,
		transferRepo: transferRepo,
		productRepo:  productRepo,
		employeeRepo: employeeRepo,
		supplierRepo: supplierRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (model.DashboardStats, error) {
	var (
		stats model.DashboardStats
		err   error
	)

	if stats.TotalSales, err = s.saleRepo.CountSales(ctx); err != nil {
		return model.DashboardStats{}, fmt.Errorf("sale repository count sales: %w", err)
	}
	if stats.TotalProducts, err = s.productRepo.CountActiveProducts(ctx); err != nil {
		return model.DashboardStats{}, fmt.Errorf("product repository count active products: %w", err)
	}
	if stats.TotalEmployees, err = s.employeeRepo.CountEmployees(ctx); err != nil {
		return model.DashboardStats{}, fmt.Errorf("employee repository count employees: %w", err)
	}
	if stats.TotalSuppliers, err = s.supplierRepo.CountSuppliers(ctx); err != nil {
		return model.DashboardStats{}, fmt.Errorf("supplier repository count suppliers: %w", err)
	}
	if stats.RecentSales, err = s.saleRepo.ListSalesPaginated(ctx, dashboardRecent, 0); err != nil {
		return model.DashboardStats{}, fmt.Errorf("sale repository list sales paginated: %w", err)
	}
	if stats.RecentTransfers, err = s.transferRepo.ListTransfersPaginated(ctx, dashboardRecent, 0); err != nil {
		return model.DashboardStats{}, fmt.Errorf("transfer repository list transfers paginated: %w", err)
	}

	return stats, nil
}
