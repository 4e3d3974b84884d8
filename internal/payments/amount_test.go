package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{19.99, 1999},
		{450, 45000},
		{0, 0},
		{0.01, 1},
		{1234.56, 123456},
		// Classic float trap: 29.99 * 100 is 2998.9999... as float64.
		{29.99, 2999},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MinorUnits(tc.amount), "amount=%v", tc.amount)
	}
}
