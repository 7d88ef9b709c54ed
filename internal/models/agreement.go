package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AgreementStatus tracks the annual works agreement between the office and a
// grampanchayat: whether the OC copy came back and whether the agreed amount
// was paid. One row per grampanchayat per financial year.
type AgreementStatus struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	FinancialYear       string          `gorm:"index:idx_agreement_fy_gp,unique" json:"financialYear"`
	Date                time.Time       `json:"date"`
	OCCopyReceived      bool            `gorm:"default:false" json:"oCCopyReceived"`
	PaymentReceived     bool            `gorm:"default:false" json:"paymentReceived"`
	PaymentReceivedDate *time.Time      `json:"paymentReceivedDate,omitempty"`
	AgreementAmount     decimal.Decimal `gorm:"type:numeric" json:"agreementAmount"`

	UploadedOCCopy DocumentRef `gorm:"embedded;embeddedPrefix:oc_copy_" json:"uploadedOCCopy"`

	GrampanchayatID uuid.UUID     `gorm:"type:uuid;index:idx_agreement_fy_gp,unique" json:"grampanchayatId"`
	Grampanchayat   Grampanchayat `json:"grampanchayat"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
