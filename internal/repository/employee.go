package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
)

const (
	employeeColumns       = `id, first_name, last_name, position, phone, username, password_hash, created_at, updated_at`
	employeeUsernameIndex = "employees_username_key"
)

type EmployeeRepository interface {
	WithDB(db db.DB) EmployeeRepository
	CreateEmployee(ctx context.Context, employee model.Employee) error
	UpdateEmployee(ctx context.Context, employee model.Employee) error
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	GetEmployee(ctx context.Context, id uuid.UUID) (model.Employee, error)
	GetEmployeeByUsername(ctx context.Context, username string) (model.Employee, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	CountEmployees(ctx context.Context) (int, error)
}

type employeeRepository struct {
	db db.DB
}

func NewEmployeeRepository(db db.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r employeeRepository) WithDB(db db.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

type employeeRow struct {
	ID           uuid.UUID `db:"id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Position     string    `db:"position"`
	Phone        string    `db:"phone"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (row employeeRow) toModel() model.Employee {
	return model.Employee{
		ID:           row.ID,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Position:     row.Position,
		Phone:        row.Phone,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func (r employeeRepository) CreateEmployee(ctx context.Context, e model.Employee) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES (@id, @first_name, @last_name, @position, @phone, @username, @password_hash, @created_at, @updated_at)
	`, employeeArgs(e)); err != nil {
		if db.IsUniqueViolation(err, employeeUsernameIndex) {
			return apperr.ErrUsernameTaken
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// UpdateEmployee keeps the stored password hash when e.PasswordHash is empty.
func (r employeeRepository) UpdateEmployee(ctx context.Context, e model.Employee) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE employees
		SET first_name    = @first_name,
			last_name     = @last_name,
			position      = @position,
			phone         = @phone,
			username      = @username,
			password_hash = COALESCE(NULLIF(@password_hash, ''), password_hash),
			updated_at    = @updated_at
		WHERE id = @id
	`, employeeArgs(e))
	if err != nil {
		if db.IsUniqueViolation(err, employeeUsernameIndex) {
			return apperr.ErrUsernameTaken
		}
		return fmt.Errorf("update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrEmployeeNotFound
	}
	return nil
}

func (r employeeRepository) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperr.ErrBusinessRejection.WithMsg("employee has recorded sales or transfers")
		}
		return fmt.Errorf("delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrEmployeeNotFound
	}
	return nil
}

func (r employeeRepository) GetEmployee(ctx context.Context, id uuid.UUID) (model.Employee, error) {
	return r.getOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = @key`, id)
}

func (r employeeRepository) GetEmployeeByUsername(ctx context.Context, username string) (model.Employee, error) {
	return r.getOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE username = @key`, username)
}

func (r employeeRepository) getOne(ctx context.Context, query string, key any) (model.Employee, error) {
	rows, err := r.db.Query(ctx, query, pgx.NamedArgs{"key": key})
	if err != nil {
		return model.Employee{}, fmt.Errorf("query employee: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[employeeRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Employee{}, apperr.ErrEmployeeNotFound
		}
		return model.Employee{}, fmt.Errorf("collect employee: %w", err)
	}
	return row.toModel(), nil
}

func (r employeeRepository) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	rows, err := r.db.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY first_name, last_name, id`)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}

	employeeRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[employeeRow])
	if err != nil {
		return nil, fmt.Errorf("collect employees: %w", err)
	}

	employees := make([]model.Employee, 0, len(employeeRows))
	for _, row := range employeeRows {
		employees = append(employees, row.toModel())
	}
	return employees, nil
}

func (r employeeRepository) CountEmployees(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return n, nil
}

func employeeArgs(e model.Employee) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":            e.ID,
		"first_name":    e.FirstName,
		"last_name":     e.LastName,
		"position":      e.Position,
		"phone":         e.Phone,
		"username":      e.Username,
		"password_hash": e.PasswordHash,
		"created_at":    e.CreatedAt,
		"updated_at":    e.UpdatedAt,
	}
}
