package controller

import (
	"ai_academy_backend/internal/service"
	"ai_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestResultController struct {
	TestResultService *service.TestResultService
}

func NewTestResultController(testResultService *service.TestResultService) *TestResultController {
	return &TestResultController{TestResultService: testResultService}
}

// @Summary 测试结果列表
// @Description 按完成时间倒序
// @Tags 测试结果
// @Produce json
// @Success 200 {array} model.TestResult
// @Router /api/test-results/ [get]
func (c *TestResultController) ListResults(ctx *gin.Context) {
	results, err := c.TestResultService.ListResults(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// @Summary 按用户查询测试结果
// @Tags 测试结果
// @Produce json
// @Param user_id query int true "用户ID"
// @Success 200 {array} model.TestResult
// @Failure 400 {object} util.ErrorResponse
// @Router /api/test-results/by_user/ [get]
func (c *TestResultController) ListByUser(ctx *gin.Context) {
	userID, ok := queryID(ctx, "user_id", "user_id parameter required")
	if !ok {
		return
	}

	results, err := c.TestResultService.ListByUser(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// @Summary 记录测试结果
// @Description 模块期末测试（lesson 为空）会替换该用户该模块之前的期末成绩
// @Tags 测试结果
// @Accept json
// @Produce json
// @Param result body service.CreateTestResultInput true "测试结果"
// @Success 201 {object} model.TestResult
// @Failure 400 {object} util.ErrorResponse
// @Router /api/test-results/ [post]
func (c *TestResultController) CreateResult(ctx *gin.Context) {
	var req service.CreateTestResultInput
	if !bindJSON(ctx, &req, false) {
		return
	}

	result, err := c.TestResultService.RecordResult(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// @Summary 测试结果详情
// @Tags 测试结果
// @Produce json
// @Param id path int true "结果ID"
// @Success 200 {object} model.TestResult
// @Failure 404 {object} util.ErrorResponse
// @Router /api/test-results/{id}/ [get]
func (c *TestResultController) GetResult(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrTestResultNotFound)
	if !ok {
		return
	}

	result, err := c.TestResultService.GetResult(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 更新测试结果
// @Tags 测试结果
// @Accept json
// @Produce json
// @Param id path int true "结果ID"
// @Param result body service.UpdateTestResultInput true "分数与是否通过"
// @Success 200 {object} model.TestResult
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/test-results/{id}/ [put]
// @Router /api/test-results/{id}/ [patch]
func (c *TestResultController) UpdateResult(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrTestResultNotFound)
	if !ok {
		return
	}
	var req service.UpdateTestResultInput
	if !bindJSON(ctx, &req, true) {
		return
	}

	result, err := c.TestResultService.UpdateResult(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 删除测试结果
// @Tags 测试结果
// @Param id path int true "结果ID"
// @Success 204
// @Failure 404 {object} util.ErrorResponse
// @Router /api/test-results/{id}/ [delete]
func (c *TestResultController) DeleteResult(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrTestResultNotFound)
	if !ok {
		return
	}

	if err := c.TestResultService.DeleteResult(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
