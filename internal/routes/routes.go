package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"deduction-reconciliation-backend/internal/config"
	handler "deduction-reconciliation-backend/internal/handlers"
	"deduction-reconciliation-backend/internal/middleware"
	"deduction-reconciliation-backend/internal/models"
	"deduction-reconciliation-backend/internal/repository"
	agreementsvc "deduction-reconciliation-backend/internal/services/agreement"
	deductionsvc "deduction-reconciliation-backend/internal/services/deduction"
	exportsvc "deduction-reconciliation-backend/internal/services/export"
	gramsvc "deduction-reconciliation-backend/internal/services/gram"
	"deduction-reconciliation-backend/internal/storage"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, store storage.ObjectStore, log *logrus.Logger) {
	deductionRepo := repository.NewDeductionRepository(db)
	gramRepo := repository.NewGrampanchayatRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	agreementRepo := repository.NewAgreementRepository(db)

	deductionService := deductionsvc.NewService(deductionRepo, gramRepo, store, log)
	exportService := exportsvc.NewService(deductionRepo)
	gramService := gramsvc.NewService(gramRepo, staffRepo, adminRepo, cfg.JWT)
	agreementService := agreementsvc.NewService(agreementRepo, gramRepo, store, log)

	deductionHandler := handler.NewDeductionHandler(deductionService, exportService, log)
	gramHandler := handler.NewGramHandler(gramService, log)
	agreementHandler := handler.NewAgreementHandler(agreementService, log)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := api.Group("/v1")

	// Login routes are the only unauthenticated surface.
	v1.POST("/admin/login", gramHandler.LoginAdmin)
	v1.POST("/staff/login", gramHandler.LoginStaff)
	v1.POST("/gp/login", gramHandler.LoginGrampanchayat)

	authed := v1.Group("")
	authed.Use(middleware.RequireAuth(cfg.JWT.Secret))

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.POST("/addGrampanchayat", gramHandler.AddGrampanchayat)
	admin.GET("/getAllGrampanchayats", gramHandler.GetAllGrampanchayats)
	admin.GET("/grampanchayat/:id", gramHandler.GetGrampanchayat)
	admin.POST("/addStaff", gramHandler.AddStaff)
	admin.GET("/getAllStaff", gramHandler.GetAllStaff)
	admin.GET("/getAllDeductions/:grampanchayatId", deductionHandler.GetAllDeductions)
	admin.PUT("/updateDeductionByAdmin/:deductionId", deductionHandler.UpdateDeductionByAdmin)
	admin.GET("/exportAllDeductionData/:grampanchayatId", deductionHandler.ExportAllDeductionData)
	admin.GET("/agreements/:grampanchayatId", agreementHandler.GetAgreementStatus)

	staff := authed.Group("/staff")
	staff.Use(middleware.RequireRole(models.RoleStaff))
	staff.POST("/add-deduction", deductionHandler.AddDeduction)
	staff.GET("/getAllDeductions/:grampanchayatId", deductionHandler.GetAllDeductions)
	staff.POST("/agreement-status", agreementHandler.CreateAgreementStatus)
	staff.GET("/agreement-status/:grampanchayatId", agreementHandler.GetAgreementStatus)
	staff.PUT("/agreement-status/:agreementId", agreementHandler.UpdateAgreementStatus)
	staff.DELETE("/agreement-status/:agreementId", agreementHandler.DeleteAgreementStatus)

	gp := authed.Group("/gp")
	gp.Use(middleware.RequireRole(models.RoleGrampanchayat))
	gp.GET("/getAllDeductions/:grampanchayatId", deductionHandler.GetAllDeductions)
}
