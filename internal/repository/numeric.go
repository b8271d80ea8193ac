package repository

import (
	"fmt"
	"math"
)

func toInt32(v int, field string) (int32, error) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("%s out of range: %d", field, v)
	}
	return int32(v), nil
}
