package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactorBounded(t *testing.T) {
	for limit := 1; limit <= 50; limit += 7 {
		for pos := -limit; pos <= limit; pos++ {
			f := Factor(pos, limit)
			if f < -1 || f > 1 {
				t.Fatalf("factor(%d,%d)=%f out of range", pos, limit, f)
			}
		}
	}
}

func TestFactorClampsViolations(t *testing.T) {
	assert.Equal(t, 1.0, Factor(30, 20))
	assert.Equal(t, -1.0, Factor(-30, 20))
	assert.Equal(t, 0.0, Factor(5, 0))
	assert.Equal(t, 0.5, Factor(10, 20))
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 9, BuyCapacity(11, 20))
	assert.Equal(t, 31, SellCapacity(11, 20))
	assert.Equal(t, -5, BuyCapacity(25, 20), "violations surface as negative capacity")

	l := Limits{"AMETHYSTS": 20}
	v, ok := l.Limit("AMETHYSTS")
	assert.True(t, ok)
	assert.Equal(t, 20, v)
	_, ok = l.Limit("KELP")
	assert.False(t, ok)
}
