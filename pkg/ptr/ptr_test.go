package ptr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/retail-pos/pkg/ptr"
)

func TestDeref(t *testing.T) {
	t.Run("Should return the default for nil", func(t *testing.T) {
		var active *bool
		assert.True(t, ptr.Deref(active, true))
	})

	t.Run("Should return the pointed value", func(t *testing.T) {
		assert.Equal(t, 5, ptr.Deref(ptr.New(5), 20))
	})
}
