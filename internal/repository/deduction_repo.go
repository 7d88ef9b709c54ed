package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"deduction-reconciliation-backend/internal/models"
)

// DeductionFilter is the full filter surface of the listing endpoints.
// Zero values mean "not filtered".
type DeductionFilter struct {
	GrampanchayatID uuid.UUID
	StartDate       *time.Time
	EndDate         *time.Time
	GSTNo           string
	PaymentMode     string
	SeenByAdmin     *bool
	SortBy          string
	SortOrder       string
}

// sortColumns whitelists client-facing sort fields against their columns.
var sortColumns = map[string]string{
	"date":             "date",
	"totalAmount":      "total_amount",
	"paymentMode":      "payment_mode",
	"seenByAdmin":      "seen_by_admin",
	"gramadhikariName": "gramadhikari_name",
	"checkNo":          "check_no",
	"pfmsDate":         "pfms_date",
	"createdAt":        "created_at",
}

type DeductionRepository struct {
	db *gorm.DB
}

func NewDeductionRepository(db *gorm.DB) *DeductionRepository {
	return &DeductionRepository{db: db}
}

func (r *DeductionRepository) DB() *gorm.DB {
	return r.db
}

// Create persists a new record and its join references. The grampanchayat
// rows themselves are never upserted from here.
func (r *DeductionRepository) Create(record *models.DeductionRecord) error {
	return r.db.Omit("Grampanchayats.*").Create(record).Error
}

func (r *DeductionRepository) GetByID(id uuid.UUID) (*models.DeductionRecord, error) {
	var record models.DeductionRecord
	err := r.db.Preload("Grampanchayats").First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Save writes back a mutated record without touching its associations.
func (r *DeductionRepository) Save(record *models.DeductionRecord) error {
	return r.db.Omit(clause.Associations).Save(record).Error
}

func (r *DeductionRepository) Count(f DeductionFilter) (int64, error) {
	var count int64
	err := r.applyFilter(f).Count(&count).Error
	return count, err
}

// Page fetches one page of matching records, newest first by default.
func (r *DeductionRepository) Page(f DeductionFilter, offset, limit int) ([]models.DeductionRecord, error) {
	var records []models.DeductionRecord
	err := r.applyFilter(f).
		Preload("Grampanchayats").
		Order(r.orderClause(f)).
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	return records, err
}

// Matching fetches every record the filter selects, pre-pagination. The
// aggregator sums over this set.
func (r *DeductionRepository) Matching(f DeductionFilter) ([]models.DeductionRecord, error) {
	var records []models.DeductionRecord
	err := r.applyFilter(f).Find(&records).Error
	return records, err
}

// AllByGrampanchayat is the export fetch: the full set, date descending.
func (r *DeductionRepository) AllByGrampanchayat(gpID uuid.UUID) ([]models.DeductionRecord, error) {
	var records []models.DeductionRecord
	err := r.applyFilter(DeductionFilter{GrampanchayatID: gpID}).
		Preload("Grampanchayats").
		Order("date DESC").
		Find(&records).Error
	return records, err
}

func (r *DeductionRepository) applyFilter(f DeductionFilter) *gorm.DB {
	q := r.db.Model(&models.DeductionRecord{}).
		Joins("JOIN deduction_grampanchayats dg ON dg.deduction_record_id = deduction_records.id").
		Where("dg.grampanchayat_id = ?", f.GrampanchayatID)

	if f.StartDate != nil {
		q = q.Where("deduction_records.date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("deduction_records.date <= ?", *f.EndDate)
	}
	if f.GSTNo != "" {
		q = q.Joins("JOIN grampanchayats gp ON gp.id = dg.grampanchayat_id").
			Where("gp.gst_no = ?", f.GSTNo)
	}
	if models.ValidPaymentMode(f.PaymentMode) {
		q = q.Where("deduction_records.payment_mode = ?", f.PaymentMode)
	}
	if f.SeenByAdmin != nil {
		q = q.Where("deduction_records.seen_by_admin = ?", *f.SeenByAdmin)
	}
	return q
}

func (r *DeductionRepository) orderClause(f DeductionFilter) string {
	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "date"
	}
	direction := "DESC"
	if f.SortOrder == "asc" {
		direction = "ASC"
	}
	return "deduction_records." + column + " " + direction
}
