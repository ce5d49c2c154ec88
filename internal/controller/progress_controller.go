package controller

import (
	"ai_academy_backend/internal/service"
	"ai_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 学习进度列表
// @Tags 学习进度
// @Produce json
// @Success 200 {array} model.UserProgress
// @Router /api/progress/ [get]
func (c *ProgressController) ListProgress(ctx *gin.Context) {
	progress, err := c.ProgressService.ListProgress(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 按用户查询学习进度
// @Tags 学习进度
// @Produce json
// @Param user_id query int true "用户ID"
// @Success 200 {array} model.UserProgress
// @Failure 400 {object} util.ErrorResponse
// @Router /api/progress/by_user/ [get]
func (c *ProgressController) ListByUser(ctx *gin.Context) {
	userID, ok := queryID(ctx, "user_id", "user_id parameter required")
	if !ok {
		return
	}

	progress, err := c.ProgressService.ListByUser(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 创建学习进度
// @Tags 学习进度
// @Accept json
// @Produce json
// @Param progress body service.CreateProgressInput true "进度信息"
// @Success 201 {object} model.UserProgress
// @Failure 400 {object} util.ErrorResponse
// @Router /api/progress/ [post]
func (c *ProgressController) CreateProgress(ctx *gin.Context) {
	var req service.CreateProgressInput
	if !bindJSON(ctx, &req, false) {
		return
	}

	progress, err := c.ProgressService.CreateProgress(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, progress)
}

// @Summary 学习进度详情
// @Tags 学习进度
// @Produce json
// @Param id path int true "进度ID"
// @Success 200 {object} model.UserProgress
// @Failure 404 {object} util.ErrorResponse
// @Router /api/progress/{id}/ [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrProgressNotFound)
	if !ok {
		return
	}

	progress, err := c.ProgressService.GetProgress(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 更新学习进度
// @Tags 学习进度
// @Accept json
// @Produce json
// @Param id path int true "进度ID"
// @Param progress body service.ProgressFields true "进度字段"
// @Success 200 {object} model.UserProgress
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/progress/{id}/ [put]
// @Router /api/progress/{id}/ [patch]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrProgressNotFound)
	if !ok {
		return
	}
	var req service.ProgressFields
	if !bindJSON(ctx, &req, true) {
		return
	}

	progress, err := c.ProgressService.UpdateProgress(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 删除学习进度
// @Tags 学习进度
// @Param id path int true "进度ID"
// @Success 204
// @Failure 404 {object} util.ErrorResponse
// @Router /api/progress/{id}/ [delete]
func (c *ProgressController) DeleteProgress(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrProgressNotFound)
	if !ok {
		return
	}

	if err := c.ProgressService.DeleteProgress(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// @Summary 更新或创建学习进度
// @Description 不存在时创建并返回 201，存在时只覆盖提供的字段并返回 200
// @Tags 学习进度
// @Accept json
// @Produce json
// @Param progress body service.UpsertProgressInput true "用户、模块及进度字段"
// @Success 200 {object} model.UserProgress
// @Success 201 {object} model.UserProgress
// @Failure 400 {object} util.ErrorResponse
// @Router /api/progress/update_or_create/ [post]
func (c *ProgressController) UpdateOrCreate(ctx *gin.Context) {
	var req service.UpsertProgressInput
	if !bindJSON(ctx, &req, true) {
		return
	}
	if req.User == 0 || req.Module == 0 {
		util.BadRequest(ctx, "user_id and module_id required")
		return
	}

	progress, created, err := c.ProgressService.UpdateOrCreate(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if created {
		util.Created(ctx, progress)
		return
	}
	util.Success(ctx, progress)
}
