package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPerPage is the page size used when the client does not ask for one.
	DefaultPerPage = 20

	// MaxPerPage caps the page size a client may request.
	MaxPerPage = 100
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Offset  int `json:"-"`
}

// DefaultParams returns first-page defaults.
func DefaultParams() Params {
	return Params{Page: 1, PerPage: DefaultPerPage}
}

// FromRequest extracts page/per_page from the request query string. Values
// that are missing, malformed or out of range fall back to the defaults, so
// handlers never see an invalid Params.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil && v > 0 && v <= MaxPerPage {
		p.PerPage = v
	}

	p.Offset = (p.Page - 1) * p.PerPage
	return p
}

// Result wraps one page of a listing together with its page metadata.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewResult builds a Result from a page of data and the total row count.
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	perPage := params.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	totalPages := totalCount / perPage
	if totalCount%perPage > 0 {
		totalPages++
	}

	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		PerPage:    perPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
