package pagination

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRequest_OffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		req        PageRequest
		wantOffset int
		wantLimit  int
	}{
		{"first page", PageRequest{Page: 0, Size: 10}, 0, 10},
		{"third page", PageRequest{Page: 2, Size: 10}, 20, 10},
		{"negative page", PageRequest{Page: -1, Size: 10}, 0, 10},
		{"negative size", PageRequest{Page: 1, Size: -5}, 0, 0},
		{"largest page that fits", PageRequest{Page: math.MaxInt / 4, Size: 4}, math.MaxInt / 4 * 4, 4},
		{"offset would wrap to zero", PageRequest{Page: 1 << 62, Size: 4}, math.MaxInt, 4},
		{"offset would wrap negative", PageRequest{Page: math.MaxInt / 3, Size: 10}, math.MaxInt, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOffset, tt.req.Offset())
			assert.Equal(t, tt.wantLimit, tt.req.Limit())
		})
	}
}

func TestMaxPage(t *testing.T) {
	assert.Equal(t, math.MaxInt/10, MaxPage(10))
	assert.Equal(t, math.MaxInt, MaxPage(1))
	assert.Equal(t, math.MaxInt, MaxPage(0))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 2, TotalPages(20, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 0, TotalPages(25, 0))
}

func TestNewPage(t *testing.T) {
	t.Run("first of three pages", func(t *testing.T) {
		page := NewPage(make([]int, 10), PageRequest{Page: 0, Size: 10}, 25)

		assert.Len(t, page.Content, 10)
		assert.Equal(t, int64(25), page.TotalElements)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 10, page.NumberOfElements)
		assert.True(t, page.First)
		assert.False(t, page.Last)
		assert.False(t, page.Empty)
	})

	t.Run("last partial page", func(t *testing.T) {
		page := NewPage(make([]int, 5), PageRequest{Page: 2, Size: 10}, 25)

		assert.Equal(t, 5, page.NumberOfElements)
		assert.False(t, page.First)
		assert.True(t, page.Last)
	})

	t.Run("page past the end", func(t *testing.T) {
		page := NewPage[int](nil, PageRequest{Page: 7, Size: 10}, 25)

		require.NotNil(t, page.Content)
		assert.True(t, page.Empty)
		assert.True(t, page.Last)
	})

	t.Run("last page at the largest index", func(t *testing.T) {
		page := NewPage[int](nil, PageRequest{Page: math.MaxInt, Size: 10}, 25)

		assert.True(t, page.Last)
		assert.False(t, page.First)
	})

	t.Run("nil content serializes as empty array", func(t *testing.T) {
		data, err := json.Marshal(NewPage[string](nil, PageRequest{Page: 0, Size: 10}, 0))
		require.NoError(t, err)
		assert.JSONEq(t, `{"content":[],"totalElements":0,"totalPages":0,"page":0,"size":10,
			"numberOfElements":0,"first":true,"last":true,"empty":true}`, string(data))
	})
}
