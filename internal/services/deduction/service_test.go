package deduction

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"deduction-reconciliation-backend/internal/apperr"
	"deduction-reconciliation-backend/internal/models"
	"deduction-reconciliation-backend/internal/repository"
	"deduction-reconciliation-backend/internal/storage"
)

// fakeStore records upload/delete calls so tests can assert side effects.
type fakeStore struct {
	uploads    []string
	deletes    []string
	failUpload bool
	seq        int
}

func (f *fakeStore) Upload(_ context.Context, localPath, folder string) (*storage.ObjectRef, error) {
	if f.failUpload {
		return nil, fmt.Errorf("object store unavailable")
	}
	f.seq++
	id := fmt.Sprintf("%s/obj-%d", folder, f.seq)
	f.uploads = append(f.uploads, id)
	return &storage.ObjectRef{ID: id, URL: "https://cdn.example.com/" + id}, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeStore, *models.Grampanchayat) {
	t.Helper()

	// A uniquely named shared-cache memory DB keeps gorm's pool on one
	// database while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Grampanchayat{}, &models.DeductionRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	gp := &models.Grampanchayat{
		ID:               uuid.New(),
		State:            "Maharashtra",
		District:         "Pune",
		Tahsil:           "Haveli",
		Name:             "Wagholi",
		GSTNo:            fmt.Sprintf("27ABCDE%08d", time.Now().UnixNano()%100000000),
		MobileNumber:     "9876543210",
		GramAdhikariName: "R. Deshmukh",
		AgreementAmount:  decimal.NewFromInt(50000),
		PasswordHash:     "x",
	}
	if err := db.Create(gp).Error; err != nil {
		t.Fatalf("seed grampanchayat: %v", err)
	}

	store := &fakeStore{}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	svc := NewService(
		repository.NewDeductionRepository(db),
		repository.NewGrampanchayatRepository(db),
		store,
		log,
	)
	return svc, store, gp
}

func validAdd(gpID uuid.UUID) AddInput {
	return AddInput{
		Date:             "2024-01-15",
		GramadhikariName: "R. Deshmukh",
		PaymentMode:      models.PaymentModeOnline,
		GrampanchayatID:  gpID.String(),
		EntryPayloads: map[models.Category]json.RawMessage{
			models.CategoryGST: json.RawMessage(`[{"amount":100,"partyName":"Sharma Traders"}]`),
		},
	}
}

func TestAdd_Validation(t *testing.T) {
	svc, _, gp := newTestService(t)

	cases := []struct {
		name   string
		mutate func(*AddInput)
	}{
		{"missing date", func(in *AddInput) { in.Date = "" }},
		{"missing officer name", func(in *AddInput) { in.GramadhikariName = "" }},
		{"missing payment mode", func(in *AddInput) { in.PaymentMode = "" }},
		{"missing grampanchayat", func(in *AddInput) { in.GrampanchayatID = "" }},
		{"invalid payment mode", func(in *AddInput) { in.PaymentMode = "cash" }},
		{"cheque without check number", func(in *AddInput) { in.PaymentMode = models.PaymentModeCheque }},
		{"no entries in any category", func(in *AddInput) { in.EntryPayloads = nil }},
		{"entries present but unparseable", func(in *AddInput) {
			in.EntryPayloads = map[models.Category]json.RawMessage{
				models.CategoryGST: json.RawMessage(`not an array`),
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validAdd(gp.ID)
			tc.mutate(&in)
			_, err := svc.Add(context.Background(), in)
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAdd_OnlineNeverRequiresCheckNo(t *testing.T) {
	svc, _, gp := newTestService(t)

	in := validAdd(gp.ID)
	in.PaymentMode = models.PaymentModeOnline
	in.CheckNo = ""
	if _, err := svc.Add(context.Background(), in); err != nil {
		t.Fatalf("online payment without check number should succeed: %v", err)
	}
}

func TestAdd_ComputesTotalFromEntries(t *testing.T) {
	svc, _, gp := newTestService(t)

	in := validAdd(gp.ID)
	in.EntryPayloads = map[models.Category]json.RawMessage{
		models.CategoryGST: json.RawMessage(`[{"amount":100,"partyName":"A"},{"amount":250,"partyName":"B"}]`),
	}
	record, err := svc.Add(context.Background(), in)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if record.TotalAmount.String() != "350" {
		t.Errorf("totalAmount = %s, want 350", record.TotalAmount)
	}
	if record.SeenByAdmin {
		t.Error("new record must start unreviewed")
	}
}

func TestAdd_TotalAmountPrecedence(t *testing.T) {
	svc, _, gp := newTestService(t)

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"array-shaped total takes first element", `[500, 1]`, "500"},
		{"scalar total is trusted over entry sum", `275`, "275"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validAdd(gp.ID)
			in.TotalAmount = json.RawMessage(tc.raw)
			record, err := svc.Add(context.Background(), in)
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			if record.TotalAmount.String() != tc.want {
				t.Errorf("totalAmount = %s, want %s", record.TotalAmount, tc.want)
			}
		})
	}
}

func TestAdd_ChequeStoresCheckNo(t *testing.T) {
	svc, _, gp := newTestService(t)

	in := validAdd(gp.ID)
	in.PaymentMode = models.PaymentModeCheque
	in.CheckNo = "CHQ-004211"
	record, err := svc.Add(context.Background(), in)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if record.CheckNo != "CHQ-004211" {
		t.Errorf("checkNo = %q", record.CheckNo)
	}
}

func TestAdd_UnknownGrampanchayat(t *testing.T) {
	svc, _, _ := newTestService(t)

	in := validAdd(uuid.New())
	_, err := svc.Add(context.Background(), in)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestAdd_UploadFailureAbortsRecord(t *testing.T) {
	svc, store, gp := newTestService(t)
	store.failUpload = true

	in := validAdd(gp.ID)
	in.DocumentPath = "/tmp/receipt.jpg"
	_, err := svc.Add(context.Background(), in)
	if apperr.KindOf(err) != apperr.KindUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}

	_, meta, _, err := svc.List(ListParams{GrampanchayatID: gp.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if meta.Total != 0 {
		t.Errorf("record persisted despite upload failure, total = %d", meta.Total)
	}
}

func TestAdd_UploadAttachesDocument(t *testing.T) {
	svc, store, gp := newTestService(t)

	in := validAdd(gp.ID)
	in.DocumentPath = "/tmp/receipt.jpg"
	record, err := svc.Add(context.Background(), in)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !record.Document.Present() {
		t.Fatal("document reference missing")
	}
	if len(store.uploads) != 1 || store.uploads[0] != record.Document.PublicID {
		t.Errorf("uploads = %v, document id = %s", store.uploads, record.Document.PublicID)
	}
}

func seedRecords(t *testing.T, svc *Service, gp *models.Grampanchayat, n int, day func(i int) string) {
	t.Helper()
	for i := 0; i < n; i++ {
		in := validAdd(gp.ID)
		in.Date = day(i)
		if _, err := svc.Add(context.Background(), in); err != nil {
			t.Fatalf("seed record %d: %v", i, err)
		}
	}
}

func TestList_Pagination(t *testing.T) {
	svc, _, gp := newTestService(t)
	seedRecords(t, svc, gp, 25, func(i int) string {
		return fmt.Sprintf("2024-01-%02d", i%28+1)
	})

	records, meta, _, err := svc.List(ListParams{GrampanchayatID: gp.ID, Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 5 {
		t.Errorf("page 3 returned %d records, want 5", len(records))
	}
	if meta.Total != 25 || meta.TotalPages != 3 || meta.CurrentPage != 3 {
		t.Errorf("pagination = %+v", meta)
	}
	if meta.HasNextPage {
		t.Error("hasNextPage should be false on the last page")
	}
	if !meta.HasPrevPage {
		t.Error("hasPrevPage should be true on page 3")
	}
}

func TestList_EmptyResultIsNotAnError(t *testing.T) {
	svc, _, gp := newTestService(t)

	records, meta, summary, err := svc.List(ListParams{
		GrampanchayatID: gp.ID,
		StartDate:       "2030-01-01",
		PaymentMode:     "cheque",
		SeenByAdmin:     "true",
	})
	if err != nil {
		t.Fatalf("List on empty set: %v", err)
	}
	if len(records) != 0 || meta.Total != 0 || meta.TotalPages != 0 {
		t.Errorf("records = %d, meta = %+v", len(records), meta)
	}
	if meta.HasNextPage || meta.HasPrevPage {
		t.Errorf("empty set pagination flags = %+v", meta)
	}
	if !summary.GrandTotal.IsZero() || !summary.TotalGST.IsZero() {
		t.Errorf("empty set summary = %+v", summary)
	}
}

func TestList_EndDateIsInclusiveToEndOfDay(t *testing.T) {
	svc, _, gp := newTestService(t)

	inside := validAdd(gp.ID)
	inside.Date = "2024-01-15T23:59:59.998Z"
	if _, err := svc.Add(context.Background(), inside); err != nil {
		t.Fatalf("Add inside: %v", err)
	}
	outside := validAdd(gp.ID)
	outside.Date = "2024-01-16T00:00:00.001Z"
	if _, err := svc.Add(context.Background(), outside); err != nil {
		t.Fatalf("Add outside: %v", err)
	}

	records, meta, _, err := svc.List(ListParams{GrampanchayatID: gp.ID, EndDate: "2024-01-15"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if meta.Total != 1 || len(records) != 1 {
		t.Fatalf("endDate filter matched %d records, want 1", meta.Total)
	}
	if !records[0].Date.Equal(time.Date(2024, 1, 15, 23, 59, 59, 998000000, time.UTC)) {
		t.Errorf("wrong record matched: %s", records[0].Date)
	}
}

func TestList_InvalidPaymentModeFilterIsIgnored(t *testing.T) {
	svc, _, gp := newTestService(t)
	seedRecords(t, svc, gp, 3, func(i int) string { return "2024-02-01" })

	_, meta, _, err := svc.List(ListParams{GrampanchayatID: gp.ID, PaymentMode: "barter"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if meta.Total != 3 {
		t.Errorf("invalid payment mode should not filter, total = %d", meta.Total)
	}
}

func TestList_SeenByAdminStringBoolean(t *testing.T) {
	svc, _, gp := newTestService(t)
	seedRecords(t, svc, gp, 2, func(i int) string { return "2024-02-01" })

	records, _, _, err := svc.List(ListParams{GrampanchayatID: gp.ID, Limit: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	seen := true
	if _, err := svc.UpdateByAdmin(context.Background(), records[0].ID, &seen, ""); err != nil {
		t.Fatalf("UpdateByAdmin: %v", err)
	}

	_, pending, _, err := svc.List(ListParams{GrampanchayatID: gp.ID, SeenByAdmin: "false"})
	if err != nil {
		t.Fatalf("List pending: %v", err)
	}
	_, reviewed, _, err := svc.List(ListParams{GrampanchayatID: gp.ID, SeenByAdmin: "true"})
	if err != nil {
		t.Fatalf("List reviewed: %v", err)
	}
	if pending.Total != 1 || reviewed.Total != 1 {
		t.Errorf("pending = %d, reviewed = %d, want 1 and 1", pending.Total, reviewed.Total)
	}
}

func TestList_RefetchIsIdempotent(t *testing.T) {
	svc, _, gp := newTestService(t)
	seedRecords(t, svc, gp, 12, func(i int) string {
		return fmt.Sprintf("2024-03-%02d", i+1)
	})

	params := ListParams{GrampanchayatID: gp.ID, Page: 2, Limit: 5}
	first, firstMeta, firstSummary, err := svc.List(params)
	if err != nil {
		t.Fatalf("first List: %v", err)
	}
	second, secondMeta, secondSummary, err := svc.List(params)
	if err != nil {
		t.Fatalf("second List: %v", err)
	}

	if firstMeta != secondMeta {
		t.Errorf("pagination differs: %+v vs %+v", firstMeta, secondMeta)
	}
	if !firstSummary.GrandTotal.Equal(secondSummary.GrandTotal) {
		t.Errorf("summary differs: %s vs %s", firstSummary.GrandTotal, secondSummary.GrandTotal)
	}
	if len(first) != len(second) {
		t.Fatalf("page sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("row %d differs: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestList_SummaryGrandTotalUsesStoredTotals(t *testing.T) {
	svc, _, gp := newTestService(t)

	// Client-supplied total deliberately diverges from the entry sum.
	in := validAdd(gp.ID)
	in.TotalAmount = json.RawMessage(`1000`)
	if _, err := svc.Add(context.Background(), in); err != nil {
		t.Fatalf("Add: %v", err)
	}
	in2 := validAdd(gp.ID)
	in2.EntryPayloads = map[models.Category]json.RawMessage{
		models.CategoryRoyalty: json.RawMessage(`[{"amount":"12.25","partyName":"Quarry"}]`),
	}
	if _, err := svc.Add(context.Background(), in2); err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, _, summary, err := svc.List(ListParams{GrampanchayatID: gp.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if summary.GrandTotal.String() != "1012.25" {
		t.Errorf("grandTotal = %s, want 1012.25", summary.GrandTotal)
	}
	if summary.TotalGST.String() != "100" {
		t.Errorf("totalGST = %s, want 100", summary.TotalGST)
	}
	if summary.TotalRoyalty.String() != "12.25" {
		t.Errorf("totalRoyalty = %s, want 12.25", summary.TotalRoyalty)
	}
	if !summary.TotalIT.IsZero() || !summary.TotalKamgaar.IsZero() || !summary.TotalInsurance.IsZero() {
		t.Errorf("unexpected non-zero subtotals: %+v", summary)
	}
}

func TestUpdateByAdmin_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	seen := true
	_, err := svc.UpdateByAdmin(context.Background(), uuid.New(), &seen, "")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestUpdateByAdmin_RejectsNoOp(t *testing.T) {
	svc, _, gp := newTestService(t)

	record, err := svc.Add(context.Background(), validAdd(gp.ID))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	_, err = svc.UpdateByAdmin(context.Background(), record.ID, nil, "")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	// The record must be untouched.
	_, _, _, listErr := svc.List(ListParams{GrampanchayatID: gp.ID, SeenByAdmin: "false"})
	if listErr != nil {
		t.Fatalf("List: %v", listErr)
	}
}

func TestUpdateByAdmin_MarksReviewed(t *testing.T) {
	svc, _, gp := newTestService(t)

	record, err := svc.Add(context.Background(), validAdd(gp.ID))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	seen := true
	updated, err := svc.UpdateByAdmin(context.Background(), record.ID, &seen, "")
	if err != nil {
		t.Fatalf("UpdateByAdmin: %v", err)
	}
	if !updated.SeenByAdmin {
		t.Error("record should be marked reviewed")
	}
}

func TestUpdateByAdmin_ReplacesDocumentAndDeletesOldOnce(t *testing.T) {
	svc, store, gp := newTestService(t)

	record, err := svc.Add(context.Background(), validAdd(gp.ID))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	seen := true
	first, err := svc.UpdateByAdmin(context.Background(), record.ID, &seen, "/tmp/signed-1.pdf")
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	if !first.UploadDocumentByAdmin.Present() {
		t.Fatal("admin document missing after first update")
	}
	oldID := first.UploadDocumentByAdmin.PublicID

	// Replacement with no seenByAdmin: flag must stay as-is.
	second, err := svc.UpdateByAdmin(context.Background(), record.ID, nil, "/tmp/signed-2.pdf")
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if !second.SeenByAdmin {
		t.Error("seenByAdmin should remain true when not passed")
	}
	if second.UploadDocumentByAdmin.PublicID == oldID {
		t.Error("admin document was not replaced")
	}
	if len(store.deletes) != 1 || store.deletes[0] != oldID {
		t.Errorf("old document deletes = %v, want exactly [%s]", store.deletes, oldID)
	}
}
