package board

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	DefaultSort = "updatedAt,desc"
	MaxPageSize = 100
)

type PageParameters struct {
	Page     int
	PageSize int
	Sort     string
	Filter   string
}

func (p PageParameters) Validate() error {

	if p.Page < 1 {
		return fmt.Errorf("page must be at least 1")
	}

	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		return fmt.Errorf("page size must be between 1 and %d", MaxPageSize)
	}

	return nil
}

func (p PageParameters) ToUrlParams() url.Values {

	params := url.Values{}
	params.Add("page", strconv.Itoa(p.Page))
	params.Add("size", strconv.Itoa(p.PageSize))

	if p.Sort != "" {
		params.Add("sort", p.Sort)
	}

	if p.Filter != "" {
		params.Add("filter", p.Filter)
	}

	return params
}
