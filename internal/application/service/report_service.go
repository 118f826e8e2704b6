package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/MadhavDodiya/expense-management/internal/application/port"
	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
	"github.com/MadhavDodiya/expense-management/internal/report"
)

// ReportService exports company expense reports
type ReportService interface {
	// GenerateCompanyReport writes an xlsx report of the company's
	// expenses and returns its path. Admin only.
	GenerateCompanyReport(ctx context.Context, actor Actor, filter port.ExpenseFilter) (string, error)
}

type reportServiceImpl struct {
	expenses  port.ExpenseRepository
	generator *report.Generator
	logger    *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(expenses port.ExpenseRepository, generator *report.Generator, logger *zap.Logger) ReportService {
	return &reportServiceImpl{
		expenses:  expenses,
		generator: generator,
		logger:    logger,
	}
}

func (s *reportServiceImpl) GenerateCompanyReport(ctx context.Context, actor Actor, filter port.ExpenseFilter) (string, error) {
	if !actor.IsAdmin() {
		return "", ErrAccessDenied
	}

	if filter.Limit == 0 {
		filter.Limit = 100
	}

	var all []*entity.Expense
	for {
		page, err := s.expenses.ListByCompany(ctx, actor.CompanyID, filter)
		if err != nil {
			return "", err
		}
		all = append(all, page...)
		if len(page) < filter.Limit {
			break
		}
		filter.Offset += filter.Limit
	}

	return s.generator.Generate(actor.CompanyID, all)
}
