package agreement

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"deduction-reconciliation-backend/internal/apperr"
	"deduction-reconciliation-backend/internal/models"
	"deduction-reconciliation-backend/internal/repository"
	"deduction-reconciliation-backend/internal/storage"
)

const ocCopyFolder = "AGREEMENT_DOCUMENTS"

// financialYearPattern accepts the statutory year span form, e.g. "2023-2024".
var financialYearPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)

// Service tracks annual agreement status per grampanchayat: OC copy receipt,
// payment receipt, and the counter-signed OC copy document.
type Service struct {
	agreements *repository.AgreementRepository
	grams      *repository.GrampanchayatRepository
	store      storage.ObjectStore
	log        *logrus.Logger
}

func NewService(
	agreements *repository.AgreementRepository,
	grams *repository.GrampanchayatRepository,
	store storage.ObjectStore,
	log *logrus.Logger,
) *Service {
	return &Service{
		agreements: agreements,
		grams:      grams,
		store:      store,
		log:        log,
	}
}

type CreateInput struct {
	FinancialYear       string
	Date                string
	OCCopyReceived      bool
	PaymentReceived     bool
	PaymentReceivedDate string
	AgreementAmount     decimal.Decimal
	GrampanchayatID     string
	DocumentPath        string
}

// Create records a new agreement for one grampanchayat and financial year.
// A grampanchayat carries at most one agreement per financial year.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.AgreementStatus, error) {
	if in.FinancialYear == "" || in.Date == "" || in.GrampanchayatID == "" {
		return nil, apperr.Validation("Financial year, date, and Grampanchayat ID are required fields")
	}
	if !financialYearPattern.MatchString(in.FinancialYear) {
		return nil, apperr.Validation("Financial year must be in format YYYY-YYYY")
	}

	date, err := parseDate(in.Date)
	if err != nil {
		return nil, apperr.Validation("Invalid date")
	}

	var paymentDate *time.Time
	if in.PaymentReceivedDate != "" {
		d, err := parseDate(in.PaymentReceivedDate)
		if err != nil {
			return nil, apperr.Validation("Invalid payment received date")
		}
		paymentDate = &d
	}

	gpID, err := uuid.Parse(in.GrampanchayatID)
	if err != nil {
		return nil, apperr.Validation("Invalid grampanchayat id")
	}
	if _, err := s.grams.GetByID(gpID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Grampanchayat not found")
		}
		return nil, apperr.Internal(fmt.Errorf("fetch grampanchayat: %w", err))
	}

	exists, err := s.agreements.ExistsForYear(gpID, in.FinancialYear)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("check existing agreement: %w", err))
	}
	if exists {
		return nil, apperr.Validation(fmt.Sprintf(
			"An agreement already exists for the financial year %s for this Grampanchayat", in.FinancialYear))
	}

	var ocCopy models.DocumentRef
	if in.DocumentPath != "" {
		ref, err := s.store.Upload(ctx, in.DocumentPath, ocCopyFolder)
		if err != nil {
			return nil, apperr.Upstream("Failed to upload document", err)
		}
		ocCopy = models.DocumentRef{PublicID: ref.ID, URL: ref.URL}
	}

	a := &models.AgreementStatus{
		ID:                  uuid.New(),
		FinancialYear:       in.FinancialYear,
		Date:                date,
		OCCopyReceived:      in.OCCopyReceived,
		PaymentReceived:     in.PaymentReceived,
		PaymentReceivedDate: paymentDate,
		AgreementAmount:     in.AgreementAmount,
		UploadedOCCopy:      ocCopy,
		GrampanchayatID:     gpID,
	}
	if err := s.agreements.Create(a); err != nil {
		return nil, apperr.Internal(fmt.Errorf("save agreement: %w", err))
	}
	return a, nil
}

// ListByGrampanchayat returns all agreements of one grampanchayat, newest
// first.
func (s *Service) ListByGrampanchayat(gpID uuid.UUID) ([]models.AgreementStatus, error) {
	agreements, err := s.agreements.ByGrampanchayat(gpID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("fetch agreements: %w", err))
	}
	return agreements, nil
}

type UpdateInput struct {
	FinancialYear       string
	Date                string
	OCCopyReceived      *bool
	PaymentReceived     *bool
	PaymentReceivedDate string
	AgreementAmount     *decimal.Decimal
	DocumentPath        string
}

// Update applies a partial update. A replacement OC copy deletes the previous
// document from the object store first.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.AgreementStatus, error) {
	a, err := s.agreements.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Agreement status not found")
		}
		return nil, apperr.Internal(fmt.Errorf("fetch agreement: %w", err))
	}

	if in.FinancialYear != "" && in.FinancialYear != a.FinancialYear {
		if !financialYearPattern.MatchString(in.FinancialYear) {
			return nil, apperr.Validation("Financial year must be in format YYYY-YYYY")
		}
		exists, err := s.agreements.ExistsForYear(a.GrampanchayatID, in.FinancialYear)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("check existing agreement: %w", err))
		}
		if exists {
			return nil, apperr.Validation(fmt.Sprintf(
				"An agreement already exists for the financial year %s for this Grampanchayat", in.FinancialYear))
		}
		a.FinancialYear = in.FinancialYear
	}

	if in.Date != "" {
		d, err := parseDate(in.Date)
		if err != nil {
			return nil, apperr.Validation("Invalid date")
		}
		a.Date = d
	}
	if in.PaymentReceivedDate != "" {
		d, err := parseDate(in.PaymentReceivedDate)
		if err != nil {
			return nil, apperr.Validation("Invalid payment received date")
		}
		a.PaymentReceivedDate = &d
	}
	if in.OCCopyReceived != nil {
		a.OCCopyReceived = *in.OCCopyReceived
	}
	if in.PaymentReceived != nil {
		a.PaymentReceived = *in.PaymentReceived
	}
	if in.AgreementAmount != nil {
		a.AgreementAmount = *in.AgreementAmount
	}

	if in.DocumentPath != "" {
		if a.UploadedOCCopy.Present() {
			if err := s.store.Delete(ctx, a.UploadedOCCopy.PublicID); err != nil {
				return nil, apperr.Upstream("Failed to delete previous document", err)
			}
		}
		ref, err := s.store.Upload(ctx, in.DocumentPath, ocCopyFolder)
		if err != nil {
			return nil, apperr.Upstream("Failed to upload document", err)
		}
		a.UploadedOCCopy = models.DocumentRef{PublicID: ref.ID, URL: ref.URL}
	}

	if err := s.agreements.Save(a); err != nil {
		return nil, apperr.Internal(fmt.Errorf("update agreement: %w", err))
	}
	return a, nil
}

// Delete removes an agreement and its stored OC copy.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := s.agreements.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Agreement status not found")
		}
		return apperr.Internal(fmt.Errorf("fetch agreement: %w", err))
	}

	if a.UploadedOCCopy.Present() {
		if err := s.store.Delete(ctx, a.UploadedOCCopy.PublicID); err != nil {
			return apperr.Upstream("Failed to delete document", err)
		}
	}
	if err := s.agreements.Delete(a.ID); err != nil {
		return apperr.Internal(fmt.Errorf("delete agreement: %w", err))
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "02-01-2006"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
