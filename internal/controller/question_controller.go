package controller

import (
	"ai_academy_backend/internal/service"
	"ai_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	AnswerService   *service.AnswerService
}

func NewQuestionController(questionService *service.QuestionService, answerService *service.AnswerService) *QuestionController {
	return &QuestionController{QuestionService: questionService, AnswerService: answerService}
}

// @Summary 题目列表
// @Tags 题目
// @Produce json
// @Success 200 {array} model.Question
// @Router /api/questions/ [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	questions, err := c.QuestionService.ListQuestions(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary 按模块查询题目
// @Tags 题目
// @Produce json
// @Param module_id query int true "模块ID"
// @Success 200 {array} model.Question
// @Failure 400 {object} util.ErrorResponse
// @Router /api/questions/by_module/ [get]
func (c *QuestionController) ListByModule(ctx *gin.Context) {
	moduleID, ok := queryID(ctx, "module_id", "module_id parameter required")
	if !ok {
		return
	}

	questions, err := c.QuestionService.ListByModule(ctx.Request.Context(), moduleID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary 创建题目
// @Description 可同时提交答案列表，题目与答案在同一事务中写入
// @Tags 题目
// @Accept json
// @Produce json
// @Param question body service.CreateQuestionInput true "题目信息"
// @Success 201 {object} model.Question
// @Failure 400 {object} util.ErrorResponse
// @Router /api/questions/ [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req service.CreateQuestionInput
	if !bindJSON(ctx, &req, false) {
		return
	}

	question, err := c.QuestionService.CreateQuestion(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// @Summary 题目详情
// @Tags 题目
// @Produce json
// @Param id path int true "题目ID"
// @Success 200 {object} model.Question
// @Failure 404 {object} util.ErrorResponse
// @Router /api/questions/{id}/ [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrQuestionNotFound)
	if !ok {
		return
	}

	question, err := c.QuestionService.GetQuestion(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary 更新题目
// @Tags 题目
// @Accept json
// @Produce json
// @Param id path int true "题目ID"
// @Param question body service.UpdateQuestionInput true "题目信息"
// @Success 200 {object} model.Question
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/questions/{id}/ [put]
// @Router /api/questions/{id}/ [patch]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrQuestionNotFound)
	if !ok {
		return
	}
	var req service.UpdateQuestionInput
	if !bindJSON(ctx, &req, true) {
		return
	}

	question, err := c.QuestionService.UpdateQuestion(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary 删除题目
// @Tags 题目
// @Param id path int true "题目ID"
// @Success 204
// @Failure 404 {object} util.ErrorResponse
// @Router /api/questions/{id}/ [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrQuestionNotFound)
	if !ok {
		return
	}

	if err := c.QuestionService.DeleteQuestion(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// @Summary 答案列表
// @Tags 答案
// @Produce json
// @Param question_id query int false "题目ID"
// @Success 200 {array} model.Answer
// @Router /api/answers/ [get]
func (c *QuestionController) ListAnswers(ctx *gin.Context) {
	var questionID uint
	if raw := ctx.Query("question_id"); raw != "" {
		id, ok := util.ParseID(raw)
		if !ok {
			util.BadRequest(ctx, "invalid question_id")
			return
		}
		questionID = id
	}

	answers, err := c.AnswerService.ListAnswers(ctx.Request.Context(), questionID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, answers)
}

// @Summary 创建答案
// @Tags 答案
// @Accept json
// @Produce json
// @Param answer body service.CreateAnswerInput true "答案信息"
// @Success 201 {object} model.Answer
// @Failure 400 {object} util.ErrorResponse
// @Router /api/answers/ [post]
func (c *QuestionController) CreateAnswer(ctx *gin.Context) {
	var req service.CreateAnswerInput
	if !bindJSON(ctx, &req, false) {
		return
	}

	answer, err := c.AnswerService.CreateAnswer(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, answer)
}

// @Summary 答案详情
// @Tags 答案
// @Produce json
// @Param id path int true "答案ID"
// @Success 200 {object} model.Answer
// @Failure 404 {object} util.ErrorResponse
// @Router /api/answers/{id}/ [get]
func (c *QuestionController) GetAnswer(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrAnswerNotFound)
	if !ok {
		return
	}

	answer, err := c.AnswerService.GetAnswer(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// @Summary 更新答案
// @Tags 答案
// @Accept json
// @Produce json
// @Param id path int true "答案ID"
// @Param answer body service.UpdateAnswerInput true "答案信息"
// @Success 200 {object} model.Answer
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/answers/{id}/ [put]
// @Router /api/answers/{id}/ [patch]
func (c *QuestionController) UpdateAnswer(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrAnswerNotFound)
	if !ok {
		return
	}
	var req service.UpdateAnswerInput
	if !bindJSON(ctx, &req, true) {
		return
	}

	answer, err := c.AnswerService.UpdateAnswer(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// @Summary 删除答案
// @Tags 答案
// @Param id path int true "答案ID"
// @Success 204
// @Failure 404 {object} util.ErrorResponse
// @Router /api/answers/{id}/ [delete]
func (c *QuestionController) DeleteAnswer(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrAnswerNotFound)
	if !ok {
		return
	}

	if err := c.AnswerService.DeleteAnswer(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
