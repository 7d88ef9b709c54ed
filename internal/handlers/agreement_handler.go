package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"deduction-reconciliation-backend/internal/apperr"
	agreementsvc "deduction-reconciliation-backend/internal/services/agreement"
)

const ocCopyField = "uploadedOCCopy"

type AgreementHandler struct {
	service *agreementsvc.Service
	log     *logrus.Logger
}

func NewAgreementHandler(service *agreementsvc.Service, log *logrus.Logger) *AgreementHandler {
	return &AgreementHandler{service: service, log: log}
}

// CreateAgreementStatus records a new agreement, optionally with the scanned
// OC copy under "uploadedOCCopy".
func (h *AgreementHandler) CreateAgreementStatus(c *gin.Context) {
	var in agreementsvc.CreateInput

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body struct {
			FinancialYear       string          `json:"financialYear"`
			Date                string          `json:"date"`
			OCCopyReceived      bool            `json:"oCCopyReceived"`
			PaymentReceived     bool            `json:"paymentReceived"`
			PaymentReceivedDate string          `json:"paymentReceivedDate"`
			AgreementAmount     decimal.Decimal `json:"agreementAmount"`
			GrampanchayatID     string          `json:"grampanchayats"`
		}
		if err := c.BindJSON(&body); err != nil {
			respondError(c, h.log, "agreement", "CreateAgreementStatus", apperr.Validation("Invalid request body"))
			return
		}
		in = agreementsvc.CreateInput{
			FinancialYear:       body.FinancialYear,
			Date:                body.Date,
			OCCopyReceived:      body.OCCopyReceived,
			PaymentReceived:     body.PaymentReceived,
			PaymentReceivedDate: body.PaymentReceivedDate,
			AgreementAmount:     body.AgreementAmount,
			GrampanchayatID:     body.GrampanchayatID,
		}
	} else {
		amount, _ := decimal.NewFromString(c.PostForm("agreementAmount"))
		in = agreementsvc.CreateInput{
			FinancialYear:       c.PostForm("financialYear"),
			Date:                c.PostForm("date"),
			OCCopyReceived:      c.PostForm("oCCopyReceived") == "true",
			PaymentReceived:     c.PostForm("paymentReceived") == "true",
			PaymentReceivedDate: c.PostForm("paymentReceivedDate"),
			AgreementAmount:     amount,
			GrampanchayatID:     c.PostForm("grampanchayats"),
		}
	}

	docPath, cleanup, err := saveTempUpload(c, ocCopyField)
	if err != nil {
		respondError(c, h.log, "agreement", "CreateAgreementStatus", err)
		return
	}
	defer cleanup()
	in.DocumentPath = docPath

	a, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, "agreement", "CreateAgreementStatus", err)
		return
	}
	respondOK(c, http.StatusCreated, "Agreement status created successfully", a)
}

// GetAgreementStatus lists a grampanchayat's agreements, newest first.
func (h *AgreementHandler) GetAgreementStatus(c *gin.Context) {
	gpID, err := uuid.Parse(c.Param("grampanchayatId"))
	if err != nil {
		respondError(c, h.log, "agreement", "GetAgreementStatus", apperr.Validation("Invalid grampanchayat id"))
		return
	}
	agreements, err := h.service.ListByGrampanchayat(gpID)
	if err != nil {
		respondError(c, h.log, "agreement", "GetAgreementStatus", err)
		return
	}
	respondOK(c, http.StatusOK, "Agreement status retrieved successfully", agreements)
}

// UpdateAgreementStatus applies a partial update, optionally replacing the
// stored OC copy.
func (h *AgreementHandler) UpdateAgreementStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("agreementId"))
	if err != nil {
		respondError(c, h.log, "agreement", "UpdateAgreementStatus", apperr.Validation("Invalid agreement id"))
		return
	}

	var in agreementsvc.UpdateInput
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body struct {
			FinancialYear       string           `json:"financialYear"`
			Date                string           `json:"date"`
			OCCopyReceived      *bool            `json:"oCCopyReceived"`
			PaymentReceived     *bool            `json:"paymentReceived"`
			PaymentReceivedDate string           `json:"paymentReceivedDate"`
			AgreementAmount     *decimal.Decimal `json:"agreementAmount"`
		}
		if err := c.BindJSON(&body); err != nil {
			respondError(c, h.log, "agreement", "UpdateAgreementStatus", apperr.Validation("Invalid request body"))
			return
		}
		in = agreementsvc.UpdateInput{
			FinancialYear:       body.FinancialYear,
			Date:                body.Date,
			OCCopyReceived:      body.OCCopyReceived,
			PaymentReceived:     body.PaymentReceived,
			PaymentReceivedDate: body.PaymentReceivedDate,
			AgreementAmount:     body.AgreementAmount,
		}
	} else {
		in = agreementsvc.UpdateInput{
			FinancialYear:       c.PostForm("financialYear"),
			Date:                c.PostForm("date"),
			PaymentReceivedDate: c.PostForm("paymentReceivedDate"),
		}
		if v := c.PostForm("oCCopyReceived"); v != "" {
			b := v == "true"
			in.OCCopyReceived = &b
		}
		if v := c.PostForm("paymentReceived"); v != "" {
			b := v == "true"
			in.PaymentReceived = &b
		}
		if v := c.PostForm("agreementAmount"); v != "" {
			if amount, err := decimal.NewFromString(v); err == nil {
				in.AgreementAmount = &amount
			}
		}
	}

	docPath, cleanup, err := saveTempUpload(c, ocCopyField)
	if err != nil {
		respondError(c, h.log, "agreement", "UpdateAgreementStatus", err)
		return
	}
	defer cleanup()
	in.DocumentPath = docPath

	a, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, "agreement", "UpdateAgreementStatus", err)
		return
	}
	respondOK(c, http.StatusOK, "Agreement status updated successfully", a)
}

// DeleteAgreementStatus removes an agreement and its stored document.
func (h *AgreementHandler) DeleteAgreementStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("agreementId"))
	if err != nil {
		respondError(c, h.log, "agreement", "DeleteAgreementStatus", apperr.Validation("Invalid agreement id"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "agreement", "DeleteAgreementStatus", err)
		return
	}
	respondOK(c, http.StatusOK, "Agreement status deleted successfully", nil)
}
