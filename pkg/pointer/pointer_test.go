package pointer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPointers(t *testing.T) {
	value := To(uint64(42))
	assert.EqualValues(t, 42, *value)

	copied := Copy(value)
	assert.Equal(t, value, copied)
	*copied = 7
	assert.EqualValues(t, 42, *value)

	assert.Nil(t, Copy[uint64](nil))
	assert.Equal(t, "default", *OrDefault(nil, "default"))
	assert.Equal(t, "value", *OrDefault(String("value"), "default"))
	assert.Nil(t, IfValid(false, 1))
	assert.Equal(t, 1, *IfValid(true, 1))

	now := time.Now()
	assert.Nil(t, TimeIfValid(false, now))
	assert.Equal(t, now, *TimeCopy(Time(now)))
	assert.Nil(t, StringCopy(nil))
}
