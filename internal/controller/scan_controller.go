package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/service"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/util"
)

type ScanController struct {
	ValidationService *service.ValidationService
}

func NewScanController(validationService *service.ValidationService) *ScanController {
	return &ScanController{ValidationService: validationService}
}

// ScanRequest is a decoded QR payload, optionally with the answer to the
// activity's question on the second round trip.
// swagger:model ScanRequest
type ScanRequest struct {
	Code   string `json:"code" binding:"required"`
	Answer string `json:"answer"`
}

// Validate godoc
// @Summary Validate a scanned code
// @Description Runs the scan protocol: returns a challenge when the activity asks a question and no answer was sent, otherwise grants or rejects
// @Tags scan
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ScanRequest true "scanned code and optional answer"
// @Success 200 {object} util.Response{data=service.ValidationResult}
// @Failure 401 {object} util.Response
// @Failure 503 {object} util.Response "storage unavailable, retry with backoff"
// @Router /api/scan [post]
func (c *ScanController) Validate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ValidationService.Validate(ctx.Request.Context(), user.UserID, req.Code, req.Answer)
	if err != nil {
		if errors.Is(err, util.ErrStorageUnavailable) {
			util.Error(ctx, http.StatusServiceUnavailable, "storage unavailable, please retry")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
