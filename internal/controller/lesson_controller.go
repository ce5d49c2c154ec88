package controller

import (
	"ai_academy_backend/internal/service"
	"ai_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// @Summary 课时列表
// @Tags 课时
// @Produce json
// @Success 200 {array} model.Lesson
// @Router /api/lessons/ [get]
func (c *LessonController) ListLessons(ctx *gin.Context) {
	lessons, err := c.LessonService.ListLessons(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// @Summary 按模块查询课时
// @Tags 课时
// @Produce json
// @Param module_id query int true "模块ID"
// @Success 200 {array} model.Lesson
// @Failure 400 {object} util.ErrorResponse
// @Router /api/lessons/by_module/ [get]
func (c *LessonController) ListByModule(ctx *gin.Context) {
	moduleID, ok := queryID(ctx, "module_id", "module_id parameter required")
	if !ok {
		return
	}

	lessons, err := c.LessonService.ListByModule(ctx.Request.Context(), moduleID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// @Summary 创建课时
// @Tags 课时
// @Accept json
// @Produce json
// @Param lesson body service.CreateLessonInput true "课时信息"
// @Success 201 {object} model.Lesson
// @Failure 400 {object} util.ErrorResponse
// @Router /api/lessons/ [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	var req service.CreateLessonInput
	if !bindJSON(ctx, &req, false) {
		return
	}

	lesson, err := c.LessonService.CreateLesson(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// @Summary 课时详情
// @Tags 课时
// @Produce json
// @Param id path int true "课时ID"
// @Success 200 {object} model.Lesson
// @Failure 404 {object} util.ErrorResponse
// @Router /api/lessons/{id}/ [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrLessonNotFound)
	if !ok {
		return
	}

	lesson, err := c.LessonService.GetLesson(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 更新课时
// @Tags 课时
// @Accept json
// @Produce json
// @Param id path int true "课时ID"
// @Param lesson body service.UpdateLessonInput true "课时信息"
// @Success 200 {object} model.Lesson
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/lessons/{id}/ [put]
// @Router /api/lessons/{id}/ [patch]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrLessonNotFound)
	if !ok {
		return
	}
	var req service.UpdateLessonInput
	if !bindJSON(ctx, &req, true) {
		return
	}

	lesson, err := c.LessonService.UpdateLesson(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 删除课时
// @Tags 课时
// @Param id path int true "课时ID"
// @Success 204
// @Failure 404 {object} util.ErrorResponse
// @Router /api/lessons/{id}/ [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrLessonNotFound)
	if !ok {
		return
	}

	if err := c.LessonService.DeleteLesson(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
