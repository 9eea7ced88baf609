package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/service"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/util"
)

type ActivityController struct {
	CatalogService *service.CatalogService
}

func NewActivityController(catalogService *service.CatalogService) *ActivityController {
	return &ActivityController{CatalogService: catalogService}
}

// ListActivities godoc
// @Summary List the catalog
// @Description Full activity list in insertion order (expected answers are never serialized)
// @Tags catalog
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Activity}
// @Router /api/activities [get]
func (c *ActivityController) ListActivities(ctx *gin.Context) {
	activities, err := c.CatalogService.ListActivities(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, activities)
}

// CreateActivity godoc
// @Summary Create an activity
// @Tags catalog
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ActivityRequest true "activity definition"
// @Success 201 {object} util.Response{data=model.Activity}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "code already in use"
// @Router /api/admin/activities [post]
func (c *ActivityController) CreateActivity(ctx *gin.Context) {
	var req service.ActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	activity, err := c.CatalogService.CreateActivity(ctx.Request.Context(), req)
	if err != nil {
		c.writeCatalogError(ctx, err)
		return
	}

	util.Created(ctx, activity)
}

// UpdateActivity godoc
// @Summary Update an activity
// @Tags catalog
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "activity id"
// @Param body body service.ActivityRequest true "activity definition"
// @Success 200 {object} util.Response{data=model.Activity}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "code already in use"
// @Router /api/admin/activities/{id} [put]
func (c *ActivityController) UpdateActivity(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid activity ID")
		return
	}

	var req service.ActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	activity, err := c.CatalogService.UpdateActivity(ctx.Request.Context(), uint(id), req)
	if err != nil {
		c.writeCatalogError(ctx, err)
		return
	}

	util.Success(ctx, activity)
}

// DeleteActivity godoc
// @Summary Delete an activity
// @Description Removes the catalog entry; completions that reference it are kept and shown with a placeholder
// @Tags catalog
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "activity id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/activities/{id} [delete]
func (c *ActivityController) DeleteActivity(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid activity ID")
		return
	}

	if err := c.CatalogService.DeleteActivity(ctx.Request.Context(), uint(id)); err != nil {
		c.writeCatalogError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Activity deleted"})
}

func (c *ActivityController) writeCatalogError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrActivityNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrCodeTaken):
		util.Error(ctx, 409, err.Error())
	case errors.Is(err, util.ErrQuestionIncomplete):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
