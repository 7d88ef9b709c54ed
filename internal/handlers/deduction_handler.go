package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"deduction-reconciliation-backend/internal/apperr"
	"deduction-reconciliation-backend/internal/models"
	deductionsvc "deduction-reconciliation-backend/internal/services/deduction"
	exportsvc "deduction-reconciliation-backend/internal/services/export"
)

type DeductionHandler struct {
	service *deductionsvc.Service
	export  *exportsvc.Service
	log     *logrus.Logger
}

func NewDeductionHandler(service *deductionsvc.Service, export *exportsvc.Service, log *logrus.Logger) *DeductionHandler {
	return &DeductionHandler{service: service, export: export, log: log}
}

// entryFields maps categories to their wire names. Both the JSON and the
// multipart form use the same field names.
var entryFields = map[models.Category]string{
	models.CategoryGST:       "gstEntries",
	models.CategoryRoyalty:   "royaltyEntries",
	models.CategoryIT:        "itEntries",
	models.CategoryKamgaar:   "kamgaarEntries",
	models.CategoryInsurance: "insuranceEntries",
}

type addDeductionBody struct {
	Date             string          `json:"date"`
	GramadhikariName string          `json:"gramadhikariName"`
	PaymentMode      string          `json:"paymentMode"`
	CheckNo          string          `json:"checkNo"`
	PFMSDate         string          `json:"pfmsDate"`
	TotalAmount      json.RawMessage `json:"totalAmount"`
	GSTEntries       json.RawMessage `json:"gstEntries"`
	RoyaltyEntries   json.RawMessage `json:"royaltyEntries"`
	ITEntries        json.RawMessage `json:"itEntries"`
	KamgaarEntries   json.RawMessage `json:"kamgaarEntries"`
	InsuranceEntries json.RawMessage `json:"insuranceEntries"`
	Grampanchayats   json.RawMessage `json:"grampanchayats"`
}

// AddDeduction ingests a staff submission. The payload arrives either as a
// JSON body or as a multipart form whose entry lists are serialized text,
// optionally carrying a supporting document under "file".
func (h *DeductionHandler) AddDeduction(c *gin.Context) {
	var in deductionsvc.AddInput

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body addDeductionBody
		if err := c.BindJSON(&body); err != nil {
			respondError(c, h.log, "deduction", "AddDeduction", apperr.Validation("Invalid request body"))
			return
		}
		in = deductionsvc.AddInput{
			Date:             body.Date,
			GramadhikariName: body.GramadhikariName,
			PaymentMode:      body.PaymentMode,
			CheckNo:          body.CheckNo,
			PFMSDate:         body.PFMSDate,
			GrampanchayatID:  firstID(body.Grampanchayats),
			TotalAmount:      body.TotalAmount,
			EntryPayloads: map[models.Category]json.RawMessage{
				models.CategoryGST:       body.GSTEntries,
				models.CategoryRoyalty:   body.RoyaltyEntries,
				models.CategoryIT:        body.ITEntries,
				models.CategoryKamgaar:   body.KamgaarEntries,
				models.CategoryInsurance: body.InsuranceEntries,
			},
		}
	} else {
		payloads := make(map[models.Category]json.RawMessage, len(entryFields))
		for cat, field := range entryFields {
			if v := c.PostForm(field); v != "" {
				payloads[cat] = json.RawMessage(v)
			}
		}
		in = deductionsvc.AddInput{
			Date:             c.PostForm("date"),
			GramadhikariName: c.PostForm("gramadhikariName"),
			PaymentMode:      c.PostForm("paymentMode"),
			CheckNo:          c.PostForm("checkNo"),
			PFMSDate:         c.PostForm("pfmsDate"),
			GrampanchayatID:  c.PostForm("grampanchayats"),
			TotalAmount:      json.RawMessage(c.PostForm("totalAmount")),
			EntryPayloads:    payloads,
		}
	}

	docPath, cleanup, err := saveTempUpload(c, "file")
	if err != nil {
		respondError(c, h.log, "deduction", "AddDeduction", err)
		return
	}
	defer cleanup()
	in.DocumentPath = docPath

	record, err := h.service.Add(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, "deduction", "AddDeduction", err)
		return
	}
	respondOK(c, http.StatusCreated, "Deduction record added successfully", record)
}

// GetAllDeductions returns a filtered page plus the aggregate summary.
func (h *DeductionHandler) GetAllDeductions(c *gin.Context) {
	gpID, err := uuid.Parse(c.Param("grampanchayatId"))
	if err != nil {
		respondError(c, h.log, "deduction", "GetAllDeductions", apperr.Validation("Invalid grampanchayat id"))
		return
	}

	params := deductionsvc.ListParams{
		GrampanchayatID: gpID,
		StartDate:       c.Query("startDate"),
		EndDate:         c.Query("endDate"),
		GSTNo:           c.Query("gstNo"),
		PaymentMode:     c.Query("paymentMode"),
		SeenByAdmin:     c.Query("seenByAdmin"),
		SortBy:          c.DefaultQuery("sortBy", "date"),
		SortOrder:       c.DefaultQuery("sortOrder", "desc"),
		Page:            intQuery(c, "page", 1),
		Limit:           intQuery(c, "limit", 10),
	}

	records, pagination, summary, err := h.service.List(params)
	if err != nil {
		respondError(c, h.log, "deduction", "GetAllDeductions", err)
		return
	}

	respondOK(c, http.StatusOK, "Deductions fetched successfully", gin.H{
		"deductions": records,
		"pagination": pagination,
		"summary":    summary,
	})
}

// UpdateDeductionByAdmin applies the review transition.
func (h *DeductionHandler) UpdateDeductionByAdmin(c *gin.Context) {
	id, err := uuid.Parse(c.Param("deductionId"))
	if err != nil {
		respondError(c, h.log, "deduction", "UpdateDeductionByAdmin", apperr.Validation("Invalid deduction id"))
		return
	}

	var seenByAdmin *bool
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body struct {
			SeenByAdmin *bool `json:"seenByAdmin"`
		}
		if err := c.BindJSON(&body); err != nil {
			respondError(c, h.log, "deduction", "UpdateDeductionByAdmin", apperr.Validation("Invalid request body"))
			return
		}
		seenByAdmin = body.SeenByAdmin
	} else if v := c.PostForm("seenByAdmin"); v != "" {
		seen := v == "true"
		seenByAdmin = &seen
	}

	docPath, cleanup, err := saveTempUpload(c, "file")
	if err != nil {
		respondError(c, h.log, "deduction", "UpdateDeductionByAdmin", err)
		return
	}
	defer cleanup()

	record, err := h.service.UpdateByAdmin(c.Request.Context(), id, seenByAdmin, docPath)
	if err != nil {
		respondError(c, h.log, "deduction", "UpdateDeductionByAdmin", err)
		return
	}
	respondOK(c, http.StatusOK, "Deduction record updated successfully", record)
}

// ExportAllDeductionData streams the spreadsheet for one grampanchayat.
func (h *DeductionHandler) ExportAllDeductionData(c *gin.Context) {
	gpID, err := uuid.Parse(c.Param("grampanchayatId"))
	if err != nil {
		respondError(c, h.log, "deduction", "ExportAllDeductionData", apperr.Validation("Invalid grampanchayat id"))
		return
	}

	data, err := h.export.Workbook(gpID)
	if err != nil {
		respondError(c, h.log, "deduction", "ExportAllDeductionData", err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+exportsvc.Filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// firstID reads an entity reference that may arrive as a single id string or
// as an array of ids; every observed record carries exactly one.
func firstID(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	if strings.HasPrefix(trimmed, "[") {
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil || len(ids) == 0 {
			return ""
		}
		return ids[0]
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return ""
	}
	return id
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
