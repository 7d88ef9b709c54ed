package repository

import (
	"gorm.io/gorm"

	"deduction-reconciliation-backend/internal/models"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.First(&admin, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) Create(staff *models.Staff) error {
	return r.db.Create(staff).Error
}

func (r *StaffRepository) GetByEmail(email string) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.First(&staff, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *StaffRepository) GetAll() ([]models.Staff, error) {
	var staff []models.Staff
	err := r.db.Order("name ASC").Find(&staff).Error
	return staff, err
}
