package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
)

func TestEmployeeService_CreateEmployee(t *testing.T) {
	repo := &fakeEmployeeRepo{byUsername: map[string]model.Employee{}}
	svc := &employeeService{employeeRepo: repo, hashCost: bcrypt.MinCost}

	t.Run("Should store a bcrypt hash, never the password", func(t *testing.T) {
		employee, err := svc.CreateEmployee(context.Background(), CreateEmployeeParams{
			FirstName: "Luis",
			Username:  "luis",
			Password:  "hunter2",
		})
		require.NoError(t, err)

		assert.NotEqual(t, "hunter2", employee.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.byUsername["luis"].PasswordHash), []byte("hunter2")))
	})

	t.Run("Should report a taken username", func(t *testing.T) {
		_, err := svc.CreateEmployee(context.Background(), CreateEmployeeParams{Username: "luis", Password: "x"})
		assert.ErrorIs(t, err, apperr.ErrUsernameTaken)
	})
}
