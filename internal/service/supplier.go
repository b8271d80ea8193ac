package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
)

type SupplierParams struct {
	FirstName string
	LastName  string
	Phone     string
}

type SupplierService interface {
	CreateSupplier(ctx context.Context, params SupplierParams) (model.Supplier, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, params SupplierParams) (model.Supplier, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
	GetSupplier(ctx context.Context, id uuid.UUID) (model.Supplier, error)
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
}

func NewSupplierService(supplierRepo repository.SupplierRepository) SupplierService {
	return &supplierService{supplierRepo: supplierRepo}
}

func (s *supplierService) CreateSupplier(ctx context.Context, params SupplierParams) (model.Supplier, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.Supplier{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	supplier := model.Supplier{
		ID:        id,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Phone:     params.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.supplierRepo.CreateSupplier(ctx, supplier); err != nil {
		return model.Supplier{}, fmt.Errorf("supplier repository create supplier: %w", err)
	}

	return supplier, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id uuid.UUID, params SupplierParams) (model.Supplier, error) {
	supplier, err := s.supplierRepo.GetSupplier(ctx, id)
	if err != nil {
		return model.Supplier{}, fmt.Errorf("supplier repository get supplier: %w", err)
	}

	supplier.FirstName = params.FirstName
	supplier.LastName = params.LastName
	supplier.Phone = params.Phone
	supplier.UpdatedAt = time.Now()

	if err := s.supplierRepo.UpdateSupplier(ctx, supplier); err != nil {
		return model.Supplier{}, fmt.Errorf("supplier repository update supplier: %w", err)
	}

	return supplier, nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if err := s.supplierRepo.DeleteSupplier(ctx, id); err != nil {
		return fmt.Errorf("supplier repository delete supplier: %w", err)
	}
	return nil
}

func (s *supplierService) GetSupplier(ctx context.Context, id uuid.UUID) (model.Supplier, error) {
	supplier, err := s.supplierRepo.GetSupplier(ctx, id)
	if err != nil {
		return model.Supplier{}, fmt.Errorf("supplier repository get supplier: %w", err)
	}
	return supplier, nil
}

func (s *supplierService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	suppliers, err := s.supplierRepo.ListSuppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("supplier repository list suppliers: %w", err)
	}
	return suppliers, nil
}
