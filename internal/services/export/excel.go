// Package export flattens deduction records into the spreadsheet shape
// consumed by the admin's reconciliation workbook. The column names are part
// of the downstream contract and must not change.
package export

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"deduction-reconciliation-backend/internal/apperr"
	"deduction-reconciliation-backend/internal/models"
	"deduction-reconciliation-backend/internal/repository"
	"deduction-reconciliation-backend/internal/services/entries"
)

const (
	SheetName  = "All Deductions"
	Filename   = "all_deductions.xlsx"
	dateLayout = "02/01/2006"
)

type Service struct {
	deductions *repository.DeductionRepository
}

func NewService(deductions *repository.DeductionRepository) *Service {
	return &Service{deductions: deductions}
}

// Headers returns the fixed column order.
func Headers() []string {
	h := []string{"Date", "Gramadhikari Name", "Payment Mode", "Total Amount", "Check Number", "PFMS Date"}
	for _, c := range models.Categories() {
		h = append(h, c.Label()+" Entries Count", c.Label()+" Total Amount")
	}
	return append(h, "Admin Reviewed", "Document URL", "Admin Document URL")
}

// Row flattens one record into the column order of Headers.
func Row(r *models.DeductionRecord) []interface{} {
	pfms := ""
	if r.PFMSDate != nil {
		pfms = r.PFMSDate.Format(dateLayout)
	}
	reviewed := "No"
	if r.SeenByAdmin {
		reviewed = "Yes"
	}

	row := []interface{}{
		r.Date.Format(dateLayout),
		r.GramadhikariName,
		r.PaymentMode,
		r.TotalAmount.InexactFloat64(),
		r.CheckNo,
		pfms,
	}
	for _, c := range models.Categories() {
		bucket := r.EntriesFor(c)
		row = append(row, len(bucket), entries.Sum(bucket).InexactFloat64())
	}
	return append(row, reviewed, r.Document.URL, r.UploadDocumentByAdmin.URL)
}

// Workbook builds the xlsx bytes for every record of one grampanchayat,
// newest first.
func (s *Service) Workbook(gpID uuid.UUID) ([]byte, error) {
	records, err := s.deductions.AllByGrampanchayat(gpID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("fetch deductions for export: %w", err))
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", SheetName)

	for col, h := range Headers() {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, apperr.Internal(err)
		}
	}

	for i := range records {
		for col, v := range Row(&records[i]) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, apperr.Internal(err)
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, apperr.Internal(err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("write workbook: %w", err))
	}
	return buf.Bytes(), nil
}
