package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"deduction-reconciliation-backend/internal/models"
)

type GrampanchayatRepository struct {
	db *gorm.DB
}

func NewGrampanchayatRepository(db *gorm.DB) *GrampanchayatRepository {
	return &GrampanchayatRepository{db: db}
}

func (r *GrampanchayatRepository) DB() *gorm.DB {
	return r.db
}

func (r *GrampanchayatRepository) Create(gp *models.Grampanchayat) error {
	return r.db.Create(gp).Error
}

func (r *GrampanchayatRepository) GetByID(id uuid.UUID) (*models.Grampanchayat, error) {
	var gp models.Grampanchayat
	err := r.db.First(&gp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &gp, nil
}

func (r *GrampanchayatRepository) GetByGSTNo(gstNo string) (*models.Grampanchayat, error) {
	var gp models.Grampanchayat
	err := r.db.First(&gp, "gst_no = ?", gstNo).Error
	if err != nil {
		return nil, err
	}
	return &gp, nil
}

// Search matches name or district, case-insensitive, with offset pagination.
func (r *GrampanchayatRepository) Search(query string, offset, limit int) ([]models.Grampanchayat, int64, error) {
	q := r.db.Model(&models.Grampanchayat{})
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(grampanchayat) LIKE ? OR LOWER(district) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var gps []models.Grampanchayat
	err := q.Order("grampanchayat ASC").Offset(offset).Limit(limit).Find(&gps).Error
	return gps, total, err
}
