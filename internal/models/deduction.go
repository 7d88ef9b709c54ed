package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Amounts serialize as JSON numbers; API clients parse them as numerics, not
// strings. Arithmetic still happens on decimal.Decimal, never on floats.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Category tags the five statutory deduction buckets. Everything that walks
// the buckets (parsing, aggregation, export) iterates Categories() instead of
// hand-writing five copies.
type Category string

const (
	CategoryGST       Category = "gst"
	CategoryRoyalty   Category = "royalty"
	CategoryIT        Category = "it"
	CategoryKamgaar   Category = "kamgaar"
	CategoryInsurance Category = "insurance"
)

func Categories() []Category {
	return []Category{CategoryGST, CategoryRoyalty, CategoryIT, CategoryKamgaar, CategoryInsurance}
}

// Label is the human form used on export sheets.
func (c Category) Label() string {
	switch c {
	case CategoryGST:
		return "GST"
	case CategoryRoyalty:
		return "Royalty"
	case CategoryIT:
		return "IT"
	case CategoryKamgaar:
		return "Kamgaar"
	case CategoryInsurance:
		return "Insurance"
	default:
		return string(c)
	}
}

// DeductionEntry is one collected line item. Entries only exist embedded in a
// parent record's category bucket.
type DeductionEntry struct {
	Amount    decimal.Decimal `json:"amount"`
	PartyName string          `json:"partyName"`
	PAN       string          `json:"pan,omitempty"`
}

// DocumentRef is an opaque reference into the object store.
type DocumentRef struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

func (d DocumentRef) Present() bool { return d.PublicID != "" }

const (
	PaymentModeOnline = "online"
	PaymentModeCheque = "cheque"
)

func ValidPaymentMode(mode string) bool {
	return mode == PaymentModeOnline || mode == PaymentModeCheque
}

// DeductionRecord is one field visit's worth of collected deductions.
// Records are appended by staff and reviewed by admins; there is no delete
// path for them.
type DeductionRecord struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Date             time.Time  `gorm:"index" json:"date"`
	GramadhikariName string     `json:"gramadhikariName"`
	PaymentMode      string     `gorm:"index" json:"paymentMode"`
	CheckNo          string     `json:"checkNo,omitempty"`
	PFMSDate         *time.Time `json:"pfmsDate,omitempty"`

	GSTEntries       datatypes.JSONSlice[DeductionEntry] `json:"gstEntries"`
	RoyaltyEntries   datatypes.JSONSlice[DeductionEntry] `json:"royaltyEntries"`
	ITEntries        datatypes.JSONSlice[DeductionEntry] `json:"itEntries"`
	KamgaarEntries   datatypes.JSONSlice[DeductionEntry] `json:"kamgaarEntries"`
	InsuranceEntries datatypes.JSONSlice[DeductionEntry] `json:"insuranceEntries"`

	TotalAmount decimal.Decimal `gorm:"type:numeric" json:"totalAmount"`

	Document              DocumentRef `gorm:"embedded;embeddedPrefix:document_" json:"document"`
	SeenByAdmin           bool        `gorm:"index;default:false" json:"seenByAdmin"`
	UploadDocumentByAdmin DocumentRef `gorm:"embedded;embeddedPrefix:admin_document_" json:"uploadDocumentbyAdmin"`

	Grampanchayats []Grampanchayat `gorm:"many2many:deduction_grampanchayats" json:"grampanchayats"`

	CreatedAt time.Time `json:"-"`
}

// EntriesFor returns the bucket for a category.
func (r *DeductionRecord) EntriesFor(c Category) []DeductionEntry {
	switch c {
	case CategoryGST:
		return r.GSTEntries
	case CategoryRoyalty:
		return r.RoyaltyEntries
	case CategoryIT:
		return r.ITEntries
	case CategoryKamgaar:
		return r.KamgaarEntries
	case CategoryInsurance:
		return r.InsuranceEntries
	default:
		return nil
	}
}

// SetEntriesFor replaces the bucket for a category.
func (r *DeductionRecord) SetEntriesFor(c Category, entries []DeductionEntry) {
	s := datatypes.JSONSlice[DeductionEntry](entries)
	switch c {
	case CategoryGST:
		r.GSTEntries = s
	case CategoryRoyalty:
		r.RoyaltyEntries = s
	case CategoryIT:
		r.ITEntries = s
	case CategoryKamgaar:
		r.KamgaarEntries = s
	case CategoryInsurance:
		r.InsuranceEntries = s
	}
}
