package controller

import (
	"ai_academy_backend/internal/service"
	"ai_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ModuleController struct {
	ModuleService *service.ModuleService
}

func NewModuleController(moduleService *service.ModuleService) *ModuleController {
	return &ModuleController{ModuleService: moduleService}
}

// @Summary 启用的模块列表
// @Description 返回完整的模块树：课时、题目、答案
// @Tags 模块
// @Produce json
// @Success 200 {array} model.Module
// @Router /api/modules/ [get]
func (c *ModuleController) ListModules(ctx *gin.Context) {
	modules, err := c.ModuleService.ListModules(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// @Summary 全部模块（含未启用）
// @Tags 模块
// @Produce json
// @Success 200 {array} model.Module
// @Router /api/modules/all_with_inactive/ [get]
func (c *ModuleController) ListAllModules(ctx *gin.Context) {
	modules, err := c.ModuleService.ListAllModules(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// @Summary 创建模块
// @Tags 模块
// @Accept json
// @Produce json
// @Param module body service.CreateModuleInput true "模块信息"
// @Success 201 {object} model.Module
// @Failure 400 {object} util.ErrorResponse
// @Router /api/modules/ [post]
func (c *ModuleController) CreateModule(ctx *gin.Context) {
	var req service.CreateModuleInput
	if !bindJSON(ctx, &req, false) {
		return
	}

	module, err := c.ModuleService.CreateModule(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// @Summary 模块详情
// @Tags 模块
// @Produce json
// @Param id path int true "模块ID"
// @Success 200 {object} model.Module
// @Failure 404 {object} util.ErrorResponse
// @Router /api/modules/{id}/ [get]
func (c *ModuleController) GetModule(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrModuleNotFound)
	if !ok {
		return
	}

	module, err := c.ModuleService.GetModule(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// @Summary 更新模块
// @Tags 模块
// @Accept json
// @Produce json
// @Param id path int true "模块ID"
// @Param module body service.UpdateModuleInput true "模块信息"
// @Success 200 {object} model.Module
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/modules/{id}/ [put]
// @Router /api/modules/{id}/ [patch]
func (c *ModuleController) UpdateModule(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrModuleNotFound)
	if !ok {
		return
	}
	var req service.UpdateModuleInput
	if !bindJSON(ctx, &req, true) {
		return
	}

	module, err := c.ModuleService.UpdateModule(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// @Summary 删除模块
// @Description 级联删除课时、题目、答案、学习进度和测试结果
// @Tags 模块
// @Param id path int true "模块ID"
// @Success 204
// @Failure 404 {object} util.ErrorResponse
// @Router /api/modules/{id}/ [delete]
func (c *ModuleController) DeleteModule(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrModuleNotFound)
	if !ok {
		return
	}

	if err := c.ModuleService.DeleteModule(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
