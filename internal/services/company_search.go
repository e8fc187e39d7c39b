package services

import (
	"context"
	"github.com/maxaizer/jobboard/internal/clients/board"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/maxaizer/jobboard/internal/filter"
)

type companiesClient interface {
	ListCompanies(ctx context.Context, parameters board.PageParameters) (models.CompanyPage, error)
}

type CompanySearch struct {
	client companiesClient
}

func NewCompanySearch(client companiesClient) *CompanySearch {
	return &CompanySearch{client: client}
}

func (s *CompanySearch) Search(ctx context.Context, name string, page, pageSize int) (models.CompanyPage, error) {
	return s.client.ListCompanies(ctx, board.PageParameters{
		Page:     page,
		PageSize: pageSize,
		Sort:     board.DefaultSort,
		Filter:   filter.BuildCompanyFilter(name),
	})
}
