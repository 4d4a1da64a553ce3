package backoff

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConstant(t *testing.T) {
	s := Constant(400 * time.Millisecond)
	for attempts := uint(1); attempts < 5; attempts++ {
		assert.Equal(t, 400*time.Millisecond, s(attempts))
	}
}

func TestExponential(t *testing.T) {
	s := Exponential(time.Second, 3)
	assert.Equal(t, time.Second, s(1))
	assert.Equal(t, 3*time.Second, s(2))
	assert.Equal(t, 27*time.Second, s(4))

	assert.Equal(t, time.Duration(math.MaxInt64), s(200))
}

func TestBinaryExponential(t *testing.T) {
	s := BinaryExponential(25 * time.Millisecond)
	assert.Equal(t, 25*time.Millisecond, s(1))
	assert.Equal(t, 50*time.Millisecond, s(2))
	assert.Equal(t, 200*time.Millisecond, s(4))
}
