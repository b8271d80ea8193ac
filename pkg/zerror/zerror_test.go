package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/retail-pos/pkg/zerror"
)

func TestZError(t *testing.T) {
	base := zerror.NewConflict("STOCK_INSUFFICIENT", "insufficient stock")

	t.Run("Should match by code after wrapping", func(t *testing.T) {
		err := fmt.Errorf("commit sale: %w", base.WrapParent(errors.New("pg error")))

		assert.ErrorIs(t, err, base)

		var zErr zerror.ZError
		assert.ErrorAs(t, err, &zErr)
		assert.Equal(t, zerror.StatusConflict, zErr.Status())
		assert.Equal(t, "insufficient stock", zErr.Msg())
	})

	t.Run("Should keep code when message is replaced", func(t *testing.T) {
		err := base.WithMsg("insufficient stock for product Moto G")

		assert.ErrorIs(t, err, base)
		assert.Equal(t, "STOCK_INSUFFICIENT", err.Code())
		assert.Equal(t, "insufficient stock for product Moto G", err.Msg())
	})

	t.Run("Should unwrap the parent", func(t *testing.T) {
		parent := errors.New("connection refused")
		err := zerror.NewServiceUnavailable("BACKEND_UNAVAILABLE", "backend unavailable").WrapParent(parent)

		assert.ErrorIs(t, err, parent)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("Should not match a different code", func(t *testing.T) {
		other := zerror.NewConflict("OTHER", "other")
		assert.NotErrorIs(t, base, other)
	})
}

func TestAs(t *testing.T) {
	t.Run("Should find a wrapped error", func(t *testing.T) {
		err := fmt.Errorf("checkout: %w", zerror.NewNotFound("CART_NOT_FOUND", "cart not found"))

		zErr, ok := zerror.As(err)
		assert.True(t, ok)
		assert.Equal(t, "CART_NOT_FOUND", zErr.Code())
		assert.Equal(t, zerror.StatusNotFound, zErr.Status())
	})

	t.Run("Should report plain errors", func(t *testing.T) {
		_, ok := zerror.As(errors.New("connection reset"))
		assert.False(t, ok)
	})
}
