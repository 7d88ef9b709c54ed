package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"deduction-reconciliation-backend/internal/models"
)

type AgreementRepository struct {
	db *gorm.DB
}

func NewAgreementRepository(db *gorm.DB) *AgreementRepository {
	return &AgreementRepository{db: db}
}

func (r *AgreementRepository) DB() *gorm.DB {
	return r.db
}

func (r *AgreementRepository) Create(a *models.AgreementStatus) error {
	return r.db.Omit("Grampanchayat").Create(a).Error
}

func (r *AgreementRepository) GetByID(id uuid.UUID) (*models.AgreementStatus, error) {
	var a models.AgreementStatus
	err := r.db.Preload("Grampanchayat").First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AgreementRepository) Save(a *models.AgreementStatus) error {
	return r.db.Omit(clause.Associations).Save(a).Error
}

func (r *AgreementRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.AgreementStatus{}, "id = ?", id).Error
}

// ByGrampanchayat returns all agreements for one grampanchayat, newest first.
func (r *AgreementRepository) ByGrampanchayat(gpID uuid.UUID) ([]models.AgreementStatus, error) {
	var agreements []models.AgreementStatus
	err := r.db.Preload("Grampanchayat").
		Where("grampanchayat_id = ?", gpID).
		Order("date DESC").
		Find(&agreements).Error
	return agreements, err
}

// ExistsForYear reports whether the grampanchayat already has an agreement for
// the financial year.
func (r *AgreementRepository) ExistsForYear(gpID uuid.UUID, financialYear string) (bool, error) {
	var count int64
	err := r.db.Model(&models.AgreementStatus{}).
		Where("grampanchayat_id = ? AND financial_year = ?", gpID, financialYear).
		Count(&count).Error
	return count > 0, err
}
