package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name                 string
		page, pageSize       int
		total                int
		wantOffset, wantSize int
	}{
		{name: "first page", page: 0, pageSize: 10, total: 25, wantOffset: 0, wantSize: 10},
		{name: "middle page", page: 2, pageSize: 10, total: 25, wantOffset: 20, wantSize: 10},
		{name: "past end resets", page: 3, pageSize: 10, total: 5, wantOffset: 0, wantSize: 10},
		{name: "offset equal to total kept", page: 2, pageSize: 5, total: 10, wantOffset: 10, wantSize: 5},
		{name: "zero page size returns all", page: 4, pageSize: 0, total: 7, wantOffset: 0, wantSize: 7},
		{name: "negative page", page: -1, pageSize: 10, total: 25, wantOffset: 0, wantSize: 10},
		{name: "empty total", page: 0, pageSize: 0, total: 0, wantOffset: 0, wantSize: 0},
		{name: "huge page does not overflow", page: math.MaxInt/2 + 1, pageSize: 2, total: 2, wantOffset: 0, wantSize: 2},
		{name: "huge page and size", page: math.MaxInt, pageSize: math.MaxInt, total: 3, wantOffset: 0, wantSize: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, size := NormalizePage(tt.page, tt.pageSize, tt.total)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}
