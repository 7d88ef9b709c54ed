package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"deduction-reconciliation-backend/internal/apperr"
	"deduction-reconciliation-backend/internal/logger"
)

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// respondError maps any error to the envelope through the apperr taxonomy.
// Internal causes are logged, never returned to the client.
func respondError(c *gin.Context, log *logrus.Logger, module, fn string, err error) {
	if apperr.KindOf(err) == apperr.KindInternal || apperr.KindOf(err) == apperr.KindUpstream {
		logger.LogError(log, module, fn, err)
	}
	c.JSON(apperr.HTTPStatus(err), gin.H{
		"success": false,
		"message": apperr.ClientMessage(err),
	})
}

// saveTempUpload writes the optional named form part to a temp path. The
// returned cleanup must run on every exit path so no temp file survives the
// request. A request without a file yields an empty path and a no-op cleanup.
func saveTempUpload(c *gin.Context, field string) (string, func(), error) {
	file, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return "", func() {}, nil
		}
		return "", func() {}, apperr.Validation("Invalid file upload")
	}

	dst := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", func() {}, apperr.Internal(err)
	}
	return dst, func() { os.Remove(dst) }, nil
}
