package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"deduction-reconciliation-backend/internal/apperr"
	gramsvc "deduction-reconciliation-backend/internal/services/gram"
)

type GramHandler struct {
	service *gramsvc.Service
	log     *logrus.Logger
}

func NewGramHandler(service *gramsvc.Service, log *logrus.Logger) *GramHandler {
	return &GramHandler{service: service, log: log}
}

func (h *GramHandler) LoginAdmin(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&body); err != nil {
		respondError(c, h.log, "gram", "LoginAdmin", apperr.Validation("Invalid request body"))
		return
	}
	token, admin, err := h.service.LoginAdmin(body.Email, body.Password)
	if err != nil {
		respondError(c, h.log, "gram", "LoginAdmin", err)
		return
	}
	respondOK(c, http.StatusOK, "Login successful", gin.H{"token": token, "admin": admin})
}

func (h *GramHandler) LoginStaff(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&body); err != nil {
		respondError(c, h.log, "gram", "LoginStaff", apperr.Validation("Invalid request body"))
		return
	}
	token, staff, err := h.service.LoginStaff(body.Email, body.Password)
	if err != nil {
		respondError(c, h.log, "gram", "LoginStaff", err)
		return
	}
	respondOK(c, http.StatusOK, "Login successful", gin.H{"token": token, "staff": staff})
}

func (h *GramHandler) LoginGrampanchayat(c *gin.Context) {
	var body struct {
		GSTNo    string `json:"gstNo"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&body); err != nil {
		respondError(c, h.log, "gram", "LoginGrampanchayat", apperr.Validation("Invalid request body"))
		return
	}
	token, gp, err := h.service.LoginGrampanchayat(body.GSTNo, body.Password)
	if err != nil {
		respondError(c, h.log, "gram", "LoginGrampanchayat", err)
		return
	}
	respondOK(c, http.StatusOK, "Login successful", gin.H{"token": token, "grampanchayat": gp})
}

func (h *GramHandler) AddGrampanchayat(c *gin.Context) {
	var body struct {
		State            string          `json:"state"`
		District         string          `json:"district"`
		Tahsil           string          `json:"tahsil"`
		Grampanchayat    string          `json:"grampanchayat"`
		GSTNo            string          `json:"gstNo"`
		GPMobileNumber   string          `json:"gpMobileNumber"`
		GramAdhikariName string          `json:"gramAdhikariName"`
		AgreementAmount  decimal.Decimal `json:"gpAgreementAmount"`
		Password         string          `json:"grampanchayatPassword"`
	}
	if err := c.BindJSON(&body); err != nil {
		respondError(c, h.log, "gram", "AddGrampanchayat", apperr.Validation("Invalid request body"))
		return
	}

	gp, err := h.service.AddGrampanchayat(gramsvc.AddGrampanchayatInput{
		State:            body.State,
		District:         body.District,
		Tahsil:           body.Tahsil,
		Name:             body.Grampanchayat,
		GSTNo:            body.GSTNo,
		MobileNumber:     body.GPMobileNumber,
		GramAdhikariName: body.GramAdhikariName,
		AgreementAmount:  body.AgreementAmount,
		Password:         body.Password,
	})
	if err != nil {
		respondError(c, h.log, "gram", "AddGrampanchayat", err)
		return
	}
	respondOK(c, http.StatusCreated, "Grampanchayat added successfully", gp)
}

func (h *GramHandler) GetAllGrampanchayats(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)

	gps, total, err := h.service.SearchGrampanchayats(c.Query("search"), page, limit)
	if err != nil {
		respondError(c, h.log, "gram", "GetAllGrampanchayats", err)
		return
	}
	respondOK(c, http.StatusOK, "Grampanchayats fetched successfully", gin.H{
		"grampanchayats": gps,
		"total":          total,
		"page":           page,
		"limit":          limit,
	})
}

func (h *GramHandler) GetGrampanchayat(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.log, "gram", "GetGrampanchayat", apperr.Validation("Invalid grampanchayat id"))
		return
	}
	gp, err := h.service.GetGrampanchayat(id)
	if err != nil {
		respondError(c, h.log, "gram", "GetGrampanchayat", err)
		return
	}
	respondOK(c, http.StatusOK, "Grampanchayat fetched successfully", gp)
}

func (h *GramHandler) AddStaff(c *gin.Context) {
	var body struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		MobileNumber string `json:"mobileNumber"`
		Password     string `json:"password"`
	}
	if err := c.BindJSON(&body); err != nil {
		respondError(c, h.log, "gram", "AddStaff", apperr.Validation("Invalid request body"))
		return
	}

	staff, err := h.service.AddStaff(gramsvc.AddStaffInput{
		Name:         body.Name,
		Email:        body.Email,
		MobileNumber: body.MobileNumber,
		Password:     body.Password,
	})
	if err != nil {
		respondError(c, h.log, "gram", "AddStaff", err)
		return
	}
	respondOK(c, http.StatusCreated, "Staff added successfully", staff)
}

func (h *GramHandler) GetAllStaff(c *gin.Context) {
	staff, err := h.service.GetAllStaff()
	if err != nil {
		respondError(c, h.log, "gram", "GetAllStaff", err)
		return
	}
	respondOK(c, http.StatusOK, "Staff fetched successfully", staff)
}
