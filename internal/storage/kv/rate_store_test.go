package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/retail-pos/internal/storage/kv"
)

func TestRateKey(t *testing.T) {
	assert.Equal(t, "retail-pos:settings:exchange_rate", kv.RateKey("retail-pos"))
	assert.Equal(t, "settings:exchange_rate", kv.RateKey(""))
}
