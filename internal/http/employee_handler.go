package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/retail-pos/internal/service"
)

type createEmployeeRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100,alphanumspace"`
	LastName  string `json:"last_name" validate:"required,max=100,alphanumspace"`
	Position  string `json:"position" validate:"max=100"`
	Phone     string `json:"phone" validate:"max=32"`
	Username  string `json:"username" validate:"required,min=3,max=64,alphanum"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

type updateEmployeeRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100,alphanumspace"`
	LastName  string `json:"last_name" validate:"required,max=100,alphanumspace"`
	Position  string `json:"position" validate:"max=100"`
	Phone     string `json:"phone" validate:"max=32"`
	Username  string `json:"username" validate:"required,min=3,max=64,alphanum"`
	Password  string `json:"password" validate:"omitempty,min=8,max=128"`
}

func (s *Service) registerEmployeeRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", s.handle(s.listEmployees))
		r.Post("/", s.handle(s.createEmployee))
		r.Get("/{employeeID}", s.handle(s.getEmployee))
		r.Put("/{employeeID}", s.handle(s.updateEmployee))
		r.Delete("/{employeeID}", s.handle(s.deleteEmployee))
	})
}

func (s *Service) listEmployees(w http.ResponseWriter, r *http.Request) error {
	employees, err := s.deps.Employees.ListEmployees(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, employees)
}

func (s *Service) createEmployee(w http.ResponseWriter, r *http.Request) error {
	var req createEmployeeRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return err
	}

	employee, err := s.deps.Employees.CreateEmployee(r.Context(), service.CreateEmployeeParams(req))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, employee)
}

func (s *Service) getEmployee(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "employeeID")
	if err != nil {
		return err
	}

	employee, err := s.deps.Employees.GetEmployee(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, employee)
}

func (s *Service) updateEmployee(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "employeeID")
	if err != nil {
		return err
	}

	var req updateEmployeeRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		return err
	}

	employee, err := s.deps.Employees.UpdateEmployee(r.Context(), id, service.UpdateEmployeeParams(req))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, employee)
}

func (s *Service) deleteEmployee(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "employeeID")
	if err != nil {
		return err
	}

	if err := s.deps.Employees.DeleteEmployee(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
