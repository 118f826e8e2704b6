package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
)

const sheetName = "Expenses"

var headers = []string{
	"Reference", "Title", "Category", "Status",
	"Amount", "Currency", "Converted Amount", "Approved Amount",
	"Submitted By", "Expense Date", "Approval Date", "Approvals",
}

// Generator writes company expense reports as xlsx workbooks.
type Generator struct {
	outputDir string
	logger    *zap.Logger
}

// NewGenerator creates a new report generator
func NewGenerator(outputDir string, logger *zap.Logger) *Generator {
	return &Generator{outputDir: outputDir, logger: logger}
}

// Generate writes the expenses into a new workbook and returns its path.
func (g *Generator) Generate(companyID int64, expenses []*entity.Expense) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, expense := range expenses {
		if err := g.writeRow(f, row+2, expense); err != nil {
			return "", err
		}
	}

	fileName := fmt.Sprintf("expenses_%d_%s.xlsx", companyID, time.Now().Format("20060102_150405"))
	outputPath := filepath.Join(g.outputDir, fileName)

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	g.logger.Info("Expense report generated",
		zap.Int64("company_id", companyID),
		zap.Int("expenses", len(expenses)),
		zap.String("path", outputPath))

	return outputPath, nil
}

func (g *Generator) writeRow(f *excelize.File, row int, expense *entity.Expense) error {
	approvalDate := ""
	if expense.ApprovalDate != nil {
		approvalDate = expense.ApprovalDate.Format("2006-01-02")
	}

	values := []interface{}{
		expense.Reference,
		expense.Title,
		expense.Category,
		expense.Status,
		expense.Amount,
		expense.Currency,
		expense.ConvertedAmount,
		expense.ApprovedAmount,
		expense.UserID,
		expense.ExpenseDate.Format("2006-01-02"),
		approvalDate,
		summarizeApprovals(expense.Approvals),
	}

	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}
	return nil
}

// summarizeApprovals renders the chain as "approved/total" counts.
func summarizeApprovals(entries []entity.ApprovalEntry) string {
	approved := 0
	for i := range entries {
		if entries[i].Status == entity.EntryApproved {
			approved++
		}
	}
	return fmt.Sprintf("%d/%d approved", approved, len(entries))
}
