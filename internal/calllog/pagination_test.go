package calllog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginateReconstructsInput(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 25, 30} {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}

		var rebuilt []int
		for page := 1; page <= TotalPages(int64(n)); page++ {
			rebuilt = append(rebuilt, Paginate(items, page)...)
		}
		assert.Equalf(t, items, append([]int{}, rebuilt...), "n=%d", n)
	}
}

func TestPaginatePastEndIsEmpty(t *testing.T) {
	items := []int{1, 2, 3}
	assert.Empty(t, Paginate(items, 2))
	assert.Empty(t, Paginate(items, 100))
}

func TestPaginateClampsInvalidPage(t *testing.T) {
	items := make([]int, 15)
	assert.Len(t, Paginate(items, 0), PageSize)
	assert.Len(t, Paginate(items, -3), PageSize)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1))
	assert.Equal(t, 10, Offset(2))
	assert.Equal(t, 0, Offset(0))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0))
	assert.Equal(t, 1, TotalPages(1))
	assert.Equal(t, 1, TotalPages(10))
	assert.Equal(t, 2, TotalPages(11))
	assert.Equal(t, 3, TotalPages(25))
}
