package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/orders", nil)
	p := FromRequest(r)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_Explicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/orders?page=3&per_page=10", nil)
	p := FromRequest(r)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 20, p.Offset)
}

func TestFromRequest_IgnoresInvalidValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/orders?page=-1&per_page=9999", nil)
	p := FromRequest(r)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
}

func TestNewResult(t *testing.T) {
	res := NewResult([]string{"a", "b"}, 45, Params{Page: 2, PerPage: 20})

	assert.Equal(t, 45, res.TotalCount)
	assert.Equal(t, 3, res.TotalPages)
	assert.True(t, res.HasNext)
	assert.True(t, res.HasPrev)
}

func TestNewResult_LastPage(t *testing.T) {
	res := NewResult([]string{"a"}, 41, Params{Page: 3, PerPage: 20})

	assert.Equal(t, 3, res.TotalPages)
	assert.False(t, res.HasNext)
	assert.True(t, res.HasPrev)
}

func TestNewResult_ZeroPerPageFallsBack(t *testing.T) {
	res := NewResult([]string{}, 10, Params{Page: 1})

	assert.Equal(t, DefaultPerPage, res.PerPage)
	assert.Equal(t, 1, res.TotalPages)
}
