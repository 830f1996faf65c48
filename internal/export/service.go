package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/statement-parser/internal/repository"
)

// Service is a tiny façade over the repository that produces XLSX bytes for
// statement exports.
type Service struct {
	repo   repository.StatementRepository
	logger *slog.Logger
}

func NewService(repo repository.StatementRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// ExportStatementsXLSX returns an XLSX workbook (as bytes) of stored
// statements, optionally restricted to a parsed_at window.
// If only from is provided -> from..now (inclusive).
// If only to is provided   -> beginning..to (inclusive).
// If neither is provided   -> all statements.
func (s *Service) ExportStatementsXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Statements"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Filename",
		"Bank",
		"Due Date",
		"Last 4 Digits",
		"Credit Limit",
		"Available Credit",
		"Statement Date",
		"Parsed At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	exported := 0
	for _, r := range recs {
		if from != nil && r.ParsedAt.Before(*from) {
			continue
		}
		if to != nil && r.ParsedAt.After(*to) {
			continue
		}
		values := []any{
			r.Filename,
			string(r.Bank),
			r.DueDate,
			r.Last4Digits,
			r.CreditLimit,
			r.AvailableCredit,
			r.StatementDate,
			r.ParsedAt.Format(time.RFC3339),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
		exported++
	}

	// drop the default sheet excelize creates
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("exported statements",
		"count", exported,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
