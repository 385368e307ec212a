// File: internal/common/context_helpers_test.go
package common

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetTokenFromContext(t *testing.T) {
	testCases := []struct {
		name   string
		header string
		want   string
	}{
		{"missing header", "", ""},
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"case-insensitive scheme", "bearer abc.def.ghi", "abc.def.ghi"},
		{"wrong scheme", "Basic abc", ""},
		{"missing token part", "Bearer", ""},
	}

	gin.SetMode(gin.TestMode)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/users/me", nil)
			if tc.header != "" {
				c.Request.Header.Set(AuthorizationHeader, tc.header)
			}
			assert.Equal(t, tc.want, GetTokenFromContext(c))
		})
	}
}
