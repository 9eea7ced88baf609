package controller

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/service"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/util"
)

type ProgressController struct {
	ProgressService *service.ProgressService
	UserService     *service.UserService
}

func NewProgressController(progressService *service.ProgressService, userService *service.UserService) *ProgressController {
	return &ProgressController{
		ProgressService: progressService,
		UserService:     userService,
	}
}

// GetProgress godoc
// @Summary Participation progress
// @Description Per-activity completion state plus overall and mandatory percentages, computed live from the ledger
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ProgressSummary}
// @Failure 401 {object} util.Response
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.ProgressService.Summary(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}

// GetCertificate godoc
// @Summary Certificate data
// @Description Eligibility plus the fields the external certificate renderer needs
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/certificate [get]
func (c *ProgressController) GetCertificate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	eligible, err := c.ProgressService.CertificateEligible(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	user, err := c.UserService.GetUserByID(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"eligible":   eligible,
		"name":       user.Name,
		"school":     user.School,
		"issuedDate": time.Now().Format("02/01/2006"),
	})
}
