package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/http/apierr"
	"github.com/tuanvumaihuynh/retail-pos/pkg/validator"
)

func TestNew(t *testing.T) {
	t.Run("Should map domain errors by status", func(t *testing.T) {
		cases := []struct {
			err  error
			code int
		}{
			{apperr.ErrCartEmpty, http.StatusBadRequest},
			{apperr.ErrProductNotFound, http.StatusNotFound},
			{apperr.ErrInsufficientStock, http.StatusConflict},
			{apperr.ErrBusinessRejection, http.StatusUnprocessableEntity},
			{apperr.ErrPartialCommit, http.StatusInternalServerError},
			{apperr.ErrDataAccess, http.StatusServiceUnavailable},
			{apperr.ErrSessionRequired, http.StatusUnauthorized},
			{apperr.ErrCartNotOwned, http.StatusForbidden},
		}
		for _, c := range cases {
			res := apierr.New(fmt.Errorf("wrapped: %w", c.err))
			assert.Equal(t, c.code, res.StatusCode, c.err.Error())
		}
	})

	t.Run("Should keep the backend message", func(t *testing.T) {
		res := apierr.New(apperr.ErrBusinessRejection.WithMsg("source and destination store must differ"))
		assert.Equal(t, apperr.BusinessRejectionCode, res.Code)
		assert.Equal(t, "source and destination store must differ", res.Message)
	})

	t.Run("Should list field errors", func(t *testing.T) {
		v, err := validator.NewDefaultValidator()
		require.NoError(t, err)

		type body struct {
			Name string `validate:"required"`
		}
		res := apierr.New(v.Validate(body{}))

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		require.NotNil(t, res.Details)
		assert.Equal(t, "Name", (*res.Details)[0].Field)
	})

	t.Run("Should report bad parameters", func(t *testing.T) {
		res := apierr.New(&apierr.ParamError{Name: "limit", Err: errors.New("not a number")})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Contains(t, res.Message, "limit")
	})

	t.Run("Should hide unknown errors", func(t *testing.T) {
		res := apierr.New(errors.New("pq: connection refused"))
		assert.Equal(t, apierr.InternalServerErr, res)
	})
}
