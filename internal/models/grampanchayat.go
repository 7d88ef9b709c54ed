package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Grampanchayat is the owning entity for deduction records, identified by its
// statutory GST number.
type Grampanchayat struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	State            string          `json:"state"`
	District         string          `gorm:"index" json:"district"`
	Tahsil           string          `json:"tahsil"`
	Name             string          `gorm:"column:grampanchayat;index" json:"grampanchayat"`
	GSTNo            string          `gorm:"uniqueIndex" json:"gstNo"`
	MobileNumber     string          `gorm:"column:gp_mobile_number" json:"gpMobileNumber"`
	GramAdhikariName string          `json:"gramAdhikariName"`
	AgreementAmount  decimal.Decimal `gorm:"type:numeric;column:gp_agreement_amount" json:"gpAgreementAmount"`
	PasswordHash     string          `json:"-"`
	CreatedAt        time.Time       `json:"-"`
}
