package gram

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"deduction-reconciliation-backend/internal/apperr"
	"deduction-reconciliation-backend/internal/auth"
	"deduction-reconciliation-backend/internal/config"
	"deduction-reconciliation-backend/internal/models"
	"deduction-reconciliation-backend/internal/repository"
)

const gstNoLength = 15

// Service covers grampanchayat and staff administration plus the three login
// flows. Token issuance stays deliberately small: a role-scoped JWT, nothing
// else.
type Service struct {
	grams  *repository.GrampanchayatRepository
	staff  *repository.StaffRepository
	admins *repository.AdminRepository
	jwt    config.JWTConfig
}

func NewService(
	grams *repository.GrampanchayatRepository,
	staff *repository.StaffRepository,
	admins *repository.AdminRepository,
	jwt config.JWTConfig,
) *Service {
	return &Service{grams: grams, staff: staff, admins: admins, jwt: jwt}
}

type AddGrampanchayatInput struct {
	State            string
	District         string
	Tahsil           string
	Name             string
	GSTNo            string
	MobileNumber     string
	GramAdhikariName string
	AgreementAmount  decimal.Decimal
	Password         string
}

func (s *Service) AddGrampanchayat(in AddGrampanchayatInput) (*models.Grampanchayat, error) {
	if in.State == "" || in.District == "" || in.Tahsil == "" || in.Name == "" ||
		in.GSTNo == "" || in.MobileNumber == "" || in.GramAdhikariName == "" || in.Password == "" {
		return nil, apperr.Validation("All grampanchayat fields are required")
	}
	if len(in.GSTNo) != gstNoLength {
		return nil, apperr.Validation("GST number must be exactly 15 characters")
	}
	if _, err := s.grams.GetByGSTNo(in.GSTNo); err == nil {
		return nil, apperr.Validation("Grampanchayat with this GST number already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(fmt.Errorf("check gst number: %w", err))
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	gp := &models.Grampanchayat{
		ID:               uuid.New(),
		State:            in.State,
		District:         in.District,
		Tahsil:           in.Tahsil,
		Name:             in.Name,
		GSTNo:            in.GSTNo,
		MobileNumber:     in.MobileNumber,
		GramAdhikariName: in.GramAdhikariName,
		AgreementAmount:  in.AgreementAmount,
		PasswordHash:     hash,
	}
	if err := s.grams.Create(gp); err != nil {
		return nil, apperr.Internal(fmt.Errorf("save grampanchayat: %w", err))
	}
	return gp, nil
}

func (s *Service) GetGrampanchayat(id uuid.UUID) (*models.Grampanchayat, error) {
	gp, err := s.grams.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Grampanchayat not found")
		}
		return nil, apperr.Internal(fmt.Errorf("fetch grampanchayat: %w", err))
	}
	return gp, nil
}

func (s *Service) SearchGrampanchayats(query string, page, limit int) ([]models.Grampanchayat, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	gps, total, err := s.grams.Search(query, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("search grampanchayats: %w", err))
	}
	return gps, total, nil
}

type AddStaffInput struct {
	Name         string
	Email        string
	MobileNumber string
	Password     string
}

func (s *Service) AddStaff(in AddStaffInput) (*models.Staff, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("Name, email, and password are required")
	}
	if _, err := s.staff.GetByEmail(in.Email); err == nil {
		return nil, apperr.Validation("Staff with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(fmt.Errorf("check staff email: %w", err))
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	staff := &models.Staff{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		MobileNumber: in.MobileNumber,
		PasswordHash: hash,
	}
	if err := s.staff.Create(staff); err != nil {
		return nil, apperr.Internal(fmt.Errorf("save staff: %w", err))
	}
	return staff, nil
}

func (s *Service) GetAllStaff() ([]models.Staff, error) {
	staff, err := s.staff.GetAll()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("fetch staff: %w", err))
	}
	return staff, nil
}

// LoginAdmin exchanges admin credentials for a token.
func (s *Service) LoginAdmin(email, password string) (string, *models.Admin, error) {
	if email == "" || password == "" {
		return "", nil, apperr.Validation("Email and password are required")
	}
	admin, err := s.admins.GetByEmail(email)
	if err != nil || !auth.CheckPassword(admin.PasswordHash, password) {
		return "", nil, apperr.Validation("Invalid email or password")
	}
	token, err := auth.GenerateToken(s.jwt, admin.ID.String(), models.RoleAdmin)
	if err != nil {
		return "", nil, apperr.Internal(fmt.Errorf("sign token: %w", err))
	}
	return token, admin, nil
}

// LoginStaff exchanges staff credentials for a token.
func (s *Service) LoginStaff(email, password string) (string, *models.Staff, error) {
	if email == "" || password == "" {
		return "", nil, apperr.Validation("Email and password are required")
	}
	staff, err := s.staff.GetByEmail(email)
	if err != nil || !auth.CheckPassword(staff.PasswordHash, password) {
		return "", nil, apperr.Validation("Invalid email or password")
	}
	token, err := auth.GenerateToken(s.jwt, staff.ID.String(), models.RoleStaff)
	if err != nil {
		return "", nil, apperr.Internal(fmt.Errorf("sign token: %w", err))
	}
	return token, staff, nil
}

// LoginGrampanchayat authenticates the entity itself by its GST number.
func (s *Service) LoginGrampanchayat(gstNo, password string) (string, *models.Grampanchayat, error) {
	if gstNo == "" || password == "" {
		return "", nil, apperr.Validation("GST number and password are required")
	}
	gp, err := s.grams.GetByGSTNo(gstNo)
	if err != nil || !auth.CheckPassword(gp.PasswordHash, password) {
		return "", nil, apperr.Validation("Invalid GST number or password")
	}
	token, err := auth.GenerateToken(s.jwt, gp.ID.String(), models.RoleGrampanchayat)
	if err != nil {
		return "", nil, apperr.Internal(fmt.Errorf("sign token: %w", err))
	}
	return token, gp, nil
}
