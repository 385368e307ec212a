// File: internal/common/pagination_test.go
package common

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestGetPaginationParams(t *testing.T) {
	testCases := []struct {
		name         string
		target       string
		wantPage     int
		wantPageSize int
	}{
		{"defaults when absent", "/servicers", DefaultPage, DefaultPageSize},
		{"explicit values", "/servicers?page=3&page_size=25", 3, 25},
		{"non-numeric falls back", "/servicers?page=abc&page_size=xyz", DefaultPage, DefaultPageSize},
		{"zero and negative fall back", "/servicers?page=0&page_size=-5", DefaultPage, DefaultPageSize},
		{"page size clamped", "/servicers?page_size=500", DefaultPage, MaxPageSize},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, pageSize := GetPaginationParams(testContext(t, tc.target))
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantPageSize, pageSize)
		})
	}
}

func TestPaginationQueryOffsetAndLimit(t *testing.T) {
	q := PaginationQuery{Page: 3, PageSize: 20}
	assert.Equal(t, 40, q.Offset())
	assert.Equal(t, 20, q.Limit())

	zero := PaginationQuery{}
	assert.Equal(t, 0, zero.Offset())
	assert.Equal(t, DefaultPageSize, zero.Limit())

	oversized := PaginationQuery{Page: 2, PageSize: 1000}
	assert.Equal(t, MaxPageSize, oversized.Limit())
	assert.Equal(t, MaxPageSize, oversized.Offset())
}
