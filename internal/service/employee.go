package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
)

type CreateEmployeeParams struct {
	FirstName string
	LastName  string
	Position  string
	Phone     string
	Username  string
	Password  string
}

// UpdateEmployeeParams replaces the profile. An empty Password keeps the current one.
type UpdateEmployeeParams struct {
	FirstName string
	LastName  string
	Position  string
	Phone     string
	Username  string
	Password  string
}

type EmployeeService interface {
	CreateEmployee(ctx context.Context, params CreateEmployeeParams) (model.Employee, error)
	UpdateEmployee(ctx context.Context, id uuid.UUID, params UpdateEmployeeParams) (model.Employee, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	GetEmployee(ctx context.Context, id uuid.UUID) (model.Employee, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
}

type employeeService struct {
	employeeRepo repository.EmployeeRepository
	hashCost     int
}

func NewEmployeeService(employeeRepo repository.EmployeeRepository) EmployeeService {
	return &employeeService{
		employeeRepo: employeeRepo,
		hashCost:     bcrypt.DefaultCost,
	}
}

func (s *employeeService) CreateEmployee(ctx context.Context, params CreateEmployeeParams) (model.Employee, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.Employee{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.hashCost)
	if err != nil {
		return model.Employee{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	employee := model.Employee{
		ID:           id,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Position:     params.Position,
		Phone:        params.Phone,
		Username:     params.Username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.employeeRepo.CreateEmployee(ctx, employee); err != nil {
		return model.Employee{}, fmt.Errorf("employee repository create employee: %w", err)
	}

	return employee, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, id uuid.UUID, params UpdateEmployeeParams) (model.Employee, error) {
	employee, err := s.employeeRepo.GetEmployee(ctx, id)
	if err != nil {
		return model.Employee{}, fmt.Errorf("employee repository get employee: %w", err)
	}

	employee.FirstName = params.FirstName
	employee.LastName = params.LastName
	employee.Position = params.Position
	employee.Phone = params.Phone
	employee.Username = params.Username
	employee.PasswordHash = ""
	employee.UpdatedAt = time.Now()

	if params.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.hashCost)
		if err != nil {
			return model.Employee{}, fmt.Errorf("hash password: %w", err)
		}
		employee.PasswordHash = string(hash)
	}

	if err := s.employeeRepo.UpdateEmployee(ctx, employee); err != nil {
		return model.Employee{}, fmt.Errorf("employee repository update employee: %w", err)
	}

	return employee, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	if err := s.employeeRepo.DeleteEmployee(ctx, id); err != nil {
		return fmt.Errorf("employee repository delete employee: %w", err)
	}
	return nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id uuid.UUID) (model.Employee, error) {
	employee, err := s.employeeRepo.GetEmployee(ctx, id)
	if err != nil {
		return model.Employee{}, fmt.Errorf("employee repository get employee: %w", err)
	}
	return employee, nil
}

func (s *employeeService) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	employees, err := s.employeeRepo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("employee repository list employees: %w", err)
	}
	return employees, nil
}
