//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is the page size used by list views when none is requested.
	DefaultPageSize = 20
	// MaxPageSize caps the page size sent to the backend.
	MaxPageSize = 100
)

// Pagination is the metadata returned by every list endpoint.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// StartIndex returns the 1-based index of the first item on the page (0 when empty).
func (p Pagination) StartIndex() int {
	if p.Total == 0 || p.Limit <= 0 {
		return 0
	}
	return (p.Page-1)*p.Limit + 1
}

// EndIndex returns the 1-based index of the last item on the page (0 when empty).
func (p Pagination) EndIndex() int {
	if p.Total == 0 || p.Limit <= 0 {
		return 0
	}
	end := p.Page * p.Limit
	if end > p.Total {
		end = p.Total
	}
	return end
}

// Page is a page of items plus its pagination metadata.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// ListOptions controls paging and filtering for list endpoints.
// Search and Status are only sent when non-empty.
type ListOptions struct {
	Page   int
	Limit  int
	Search string
	Status string
}

// Normalize returns a copy with defaults applied and bounds enforced.
func (o ListOptions) Normalize() ListOptions {
	if o.Page <= 0 {
		o.Page = 1
	}
	if o.Limit <= 0 {
		o.Limit = DefaultPageSize
	}
	if o.Limit > MaxPageSize {
		o.Limit = MaxPageSize
	}
	o.Search = strings.TrimSpace(o.Search)
	o.Status = strings.TrimSpace(o.Status)
	return o
}

// Values encodes the options as query parameters: page and limit plus active filters.
func (o ListOptions) Values() url.Values {
	n := o.Normalize()
	v := url.Values{}
	v.Set("page", strconv.Itoa(n.Page))
	v.Set("limit", strconv.Itoa(n.Limit))
	if n.Search != "" {
		v.Set("search", n.Search)
	}
	if n.Status != "" {
		v.Set("status", n.Status)
	}
	return v
}
