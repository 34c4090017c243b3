package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	from, limit := Calculate(1, 20)
	assert.Equal(t, 0, from)
	assert.Equal(t, 20, limit)

	from, limit = Calculate(3, 10)
	assert.Equal(t, 20, from)
	assert.Equal(t, 10, limit)

	from, limit = Calculate(0, -5)
	assert.Equal(t, 0, from)
	assert.Equal(t, DefaultPageSize, limit)

	_, limit = Calculate(1, 1000)
	assert.Equal(t, DefaultPageSize, limit)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}
