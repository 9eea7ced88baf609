package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/service"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/util"
)

type AdminController struct {
	AdminService      *service.AdminService
	UserService       *service.UserService
	ValidationService *service.ValidationService
}

func NewAdminController(adminService *service.AdminService, userService *service.UserService, validationService *service.ValidationService) *AdminController {
	return &AdminController{
		AdminService:      adminService,
		UserService:       userService,
		ValidationService: validationService,
	}
}

// GetOverview godoc
// @Summary Admin overview
// @Description All participants with completion totals plus the recent validation feed
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/overview [get]
func (c *AdminController) GetOverview(ctx *gin.Context) {
	users, err := c.AdminService.ListUsers(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	feed, err := c.AdminService.RecentFeed(ctx.Request.Context(), 50)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"users": users,
		"feed":  feed,
	})
}

// GetLeaderboard godoc
// @Summary Leaderboard
// @Description Participants ranked by validated activities
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "number of entries" default(10)
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/admin/leaderboard [get]
func (c *AdminController) GetLeaderboard(ctx *gin.Context) {
	limit := 10
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	leaderboard, err := c.AdminService.Leaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, leaderboard)
}

// ManualAssignRequest grants an activity to a participant by hand.
// swagger:model ManualAssignRequest
type ManualAssignRequest struct {
	UserID     uint `json:"userId" binding:"required"`
	ActivityID uint `json:"activityId" binding:"required"`
}

// ManualAssign godoc
// @Summary Manually grant an activity
// @Description Staff credit for a participant without a scan; goes through the same one-time guard
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ManualAssignRequest true "target user and activity"
// @Success 200 {object} util.Response{data=service.ValidationResult}
// @Failure 404 {object} util.Response
// @Router /api/admin/assign [post]
func (c *AdminController) ManualAssign(ctx *gin.Context) {
	var req ManualAssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ValidationService.ManualAssign(ctx.Request.Context(), req.UserID, req.ActivityID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrActivityNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrStorageUnavailable):
			util.Error(ctx, http.StatusServiceUnavailable, "storage unavailable, please retry")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// ResetPassword godoc
// @Summary Reset a user password
// @Description Generates a temporary password and returns it once
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "user id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id}/reset-password [post]
func (c *AdminController) ResetPassword(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	tempPassword, err := c.UserService.ResetPassword(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"tempPassword": tempPassword})
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Removes the account; ledger entries are kept
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "user id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	if err := c.UserService.DeleteUser(uint(id)); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "User deleted"})
}

// DisableUser godoc
// @Summary Disable or enable a user
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "user id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id}/disable [patch]
func (c *AdminController) DisableUser(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	var req struct {
		Disabled bool `json:"disabled"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.DisableUser(uint(id), req.Disabled); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "User updated"})
}
