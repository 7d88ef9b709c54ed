package deduction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"deduction-reconciliation-backend/internal/apperr"
	"deduction-reconciliation-backend/internal/models"
	"deduction-reconciliation-backend/internal/repository"
	"deduction-reconciliation-backend/internal/services/entries"
	"deduction-reconciliation-backend/internal/storage"
)

const (
	staffDocumentFolder = "DEDUCTION_DOCUMENTS"
	adminDocumentFolder = "ADMIN_DEDUCTION_DOCUMENTS"
)

type Service struct {
	deductions *repository.DeductionRepository
	grams      *repository.GrampanchayatRepository
	store      storage.ObjectStore
	log        *logrus.Logger
}

func NewService(
	deductions *repository.DeductionRepository,
	grams *repository.GrampanchayatRepository,
	store storage.ObjectStore,
	log *logrus.Logger,
) *Service {
	return &Service{
		deductions: deductions,
		grams:      grams,
		store:      store,
		log:        log,
	}
}

// AddInput is a candidate record as submitted by field staff. Entry payloads
// and the total stay raw here; the service owns their interpretation.
type AddInput struct {
	Date             string
	GramadhikariName string
	PaymentMode      string
	CheckNo          string
	PFMSDate         string
	GrampanchayatID  string
	TotalAmount      json.RawMessage
	EntryPayloads    map[models.Category]json.RawMessage
	DocumentPath     string
}

// Add validates and persists a new deduction record. If a document path is
// given it is uploaded before the record is saved; an upload failure aborts
// the whole operation. The caller owns removal of the temp file.
func (s *Service) Add(ctx context.Context, in AddInput) (*models.DeductionRecord, error) {
	if in.Date == "" || in.GramadhikariName == "" || in.PaymentMode == "" || in.GrampanchayatID == "" {
		return nil, apperr.Validation("Date, Gram Adhikari Name, payment mode, and Grampanchayats are required")
	}
	if !models.ValidPaymentMode(in.PaymentMode) {
		return nil, apperr.Validation("Payment mode must be either 'online' or 'cheque'")
	}
	if in.PaymentMode == models.PaymentModeCheque && in.CheckNo == "" {
		return nil, apperr.Validation("Check number is required for cheque payments")
	}

	parsed := make(map[models.Category][]models.DeductionEntry, len(models.Categories()))
	hasEntries := false
	for _, c := range models.Categories() {
		list := entries.Parse(in.EntryPayloads[c])
		parsed[c] = list
		if len(list) > 0 {
			hasEntries = true
		}
	}
	if !hasEntries {
		return nil, apperr.Validation("At least one deduction entry is required")
	}

	date, err := parseDate(in.Date)
	if err != nil {
		return nil, apperr.Validation("Invalid date")
	}

	var pfmsDate *time.Time
	if in.PFMSDate != "" {
		d, err := parseDate(in.PFMSDate)
		if err != nil {
			return nil, apperr.Validation("Invalid PFMS date")
		}
		pfmsDate = &d
	}

	gpID, err := uuid.Parse(in.GrampanchayatID)
	if err != nil {
		return nil, apperr.Validation("Invalid grampanchayat id")
	}
	gp, err := s.grams.GetByID(gpID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Grampanchayat not found")
		}
		return nil, apperr.Internal(fmt.Errorf("fetch grampanchayat: %w", err))
	}

	var document models.DocumentRef
	if in.DocumentPath != "" {
		ref, err := s.store.Upload(ctx, in.DocumentPath, staffDocumentFolder)
		if err != nil {
			return nil, apperr.Upstream("Failed to upload document", err)
		}
		document = models.DocumentRef{PublicID: ref.ID, URL: ref.URL}
	}

	record := &models.DeductionRecord{
		ID:               uuid.New(),
		Date:             date,
		GramadhikariName: in.GramadhikariName,
		PaymentMode:      in.PaymentMode,
		PFMSDate:         pfmsDate,
		Document:         document,
		SeenByAdmin:      false,
		Grampanchayats:   []models.Grampanchayat{*gp},
	}
	if in.PaymentMode == models.PaymentModeCheque {
		record.CheckNo = in.CheckNo
	}
	for c, list := range parsed {
		record.SetEntriesFor(c, list)
	}
	record.TotalAmount = entries.ResolveTotal(in.TotalAmount, entries.SumAll(record))

	if err := s.deductions.Create(record); err != nil {
		return nil, apperr.Internal(fmt.Errorf("save deduction record: %w", err))
	}
	return record, nil
}

// ListParams carries the raw query-string filters of the listing endpoints.
type ListParams struct {
	GrampanchayatID uuid.UUID
	StartDate       string
	EndDate         string
	GSTNo           string
	PaymentMode     string
	SeenByAdmin     string
	SortBy          string
	SortOrder       string
	Page            int
	Limit           int
}

type Pagination struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// List returns one page of matching records plus the aggregate summary over
// the whole filtered set. An empty result is a valid page with zeroed
// metadata, never an error.
func (s *Service) List(p ListParams) ([]models.DeductionRecord, Pagination, Summary, error) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.Limit
	if limit < 1 {
		limit = 10
	}

	filter := s.buildFilter(p)

	total, err := s.deductions.Count(filter)
	if err != nil {
		return nil, Pagination{}, Summary{}, apperr.Internal(fmt.Errorf("count deductions: %w", err))
	}

	records, err := s.deductions.Page(filter, (page-1)*limit, limit)
	if err != nil {
		return nil, Pagination{}, Summary{}, apperr.Internal(fmt.Errorf("fetch deductions: %w", err))
	}

	matching, err := s.deductions.Matching(filter)
	if err != nil {
		return nil, Pagination{}, Summary{}, apperr.Internal(fmt.Errorf("fetch deductions for summary: %w", err))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	meta := Pagination{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
	return records, meta, Summarize(matching), nil
}

func (s *Service) buildFilter(p ListParams) repository.DeductionFilter {
	f := repository.DeductionFilter{
		GrampanchayatID: p.GrampanchayatID,
		GSTNo:           p.GSTNo,
		PaymentMode:     p.PaymentMode,
		SortBy:          p.SortBy,
		SortOrder:       p.SortOrder,
	}

	if p.StartDate != "" {
		if d, err := parseDate(p.StartDate); err == nil {
			f.StartDate = &d
		}
	}
	if p.EndDate != "" {
		if d, err := parseDate(p.EndDate); err == nil {
			// Inclusive range: push the bound to the end of that day.
			end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), d.Location())
			f.EndDate = &end
		}
	}
	if p.SeenByAdmin != "" {
		seen := p.SeenByAdmin == "true"
		f.SeenByAdmin = &seen
	}
	return f
}

// UpdateByAdmin applies the review transition: mark seen and/or replace the
// admin's counter-signed document. A prior admin document is deleted from the
// object store before the replacement is uploaded.
func (s *Service) UpdateByAdmin(ctx context.Context, id uuid.UUID, seenByAdmin *bool, documentPath string) (*models.DeductionRecord, error) {
	record, err := s.deductions.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Deduction record not found")
		}
		return nil, apperr.Internal(fmt.Errorf("fetch deduction record: %w", err))
	}

	if seenByAdmin == nil && documentPath == "" {
		return nil, apperr.Validation("No update data provided")
	}

	if documentPath != "" {
		if record.UploadDocumentByAdmin.Present() {
			if err := s.store.Delete(ctx, record.UploadDocumentByAdmin.PublicID); err != nil {
				return nil, apperr.Upstream("Failed to delete previous admin document", err)
			}
		}
		ref, err := s.store.Upload(ctx, documentPath, adminDocumentFolder)
		if err != nil {
			return nil, apperr.Upstream("Failed to upload document", err)
		}
		record.UploadDocumentByAdmin = models.DocumentRef{PublicID: ref.ID, URL: ref.URL}
	}

	if seenByAdmin != nil {
		record.SeenByAdmin = *seenByAdmin
	}

	if err := s.deductions.Save(record); err != nil {
		return nil, apperr.Internal(fmt.Errorf("update deduction record: %w", err))
	}
	return record, nil
}

// parseDate accepts calendar dates and full timestamps.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "02-01-2006"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
