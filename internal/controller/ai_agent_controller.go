package controller

import (
	"ai_academy_backend/internal/service"
	"ai_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AIAgentController struct {
	AgentService    *service.AIAgentService
	QuestionService *service.AIAgentQuestionService
}

func NewAIAgentController(agentService *service.AIAgentService, questionService *service.AIAgentQuestionService) *AIAgentController {
	return &AIAgentController{AgentService: agentService, QuestionService: questionService}
}

// @Summary AI 代理列表
// @Tags AI代理
// @Produce json
// @Success 200 {array} model.AIAgent
// @Router /api/ai-agents/ [get]
func (c *AIAgentController) ListAgents(ctx *gin.Context) {
	agents, err := c.AgentService.ListAgents(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, agents)
}

// @Summary 按用户查询 AI 代理
// @Tags AI代理
// @Produce json
// @Param user_id query int true "用户ID"
// @Success 200 {object} model.AIAgent
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/ai-agents/by_user/ [get]
func (c *AIAgentController) GetByUser(ctx *gin.Context) {
	userID, ok := queryID(ctx, "user_id", "user_id parameter required")
	if !ok {
		return
	}

	agent, err := c.AgentService.GetByUser(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, agent)
}

// @Summary 创建 AI 代理
// @Description 每个用户最多一个 AI 代理
// @Tags AI代理
// @Accept json
// @Produce json
// @Param agent body service.CreateAIAgentInput true "问卷答案"
// @Success 201 {object} model.AIAgent
// @Failure 400 {object} util.ErrorResponse
// @Router /api/ai-agents/ [post]
func (c *AIAgentController) CreateAgent(ctx *gin.Context) {
	var req service.CreateAIAgentInput
	if !bindJSON(ctx, &req, false) {
		return
	}

	agent, err := c.AgentService.CreateAgent(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, agent)
}

// @Summary AI 代理详情
// @Tags AI代理
// @Produce json
// @Param id path int true "代理ID"
// @Success 200 {object} model.AIAgent
// @Failure 404 {object} util.ErrorResponse
// @Router /api/ai-agents/{id}/ [get]
func (c *AIAgentController) GetAgent(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrAIAgentNotFound)
	if !ok {
		return
	}

	agent, err := c.AgentService.GetAgent(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, agent)
}

// @Summary 更新 AI 代理
// @Tags AI代理
// @Accept json
// @Produce json
// @Param id path int true "代理ID"
// @Param agent body service.UpdateAIAgentInput true "问卷答案"
// @Success 200 {object} model.AIAgent
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/ai-agents/{id}/ [put]
// @Router /api/ai-agents/{id}/ [patch]
func (c *AIAgentController) UpdateAgent(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrAIAgentNotFound)
	if !ok {
		return
	}
	var req service.UpdateAIAgentInput
	if !bindJSON(ctx, &req, true) {
		return
	}

	agent, err := c.AgentService.UpdateAgent(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, agent)
}

// @Summary 删除 AI 代理
// @Tags AI代理
// @Param id path int true "代理ID"
// @Success 204
// @Failure 404 {object} util.ErrorResponse
// @Router /api/ai-agents/{id}/ [delete]
func (c *AIAgentController) DeleteAgent(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrAIAgentNotFound)
	if !ok {
		return
	}

	if err := c.AgentService.DeleteAgent(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// @Summary AI 代理问卷题目
// @Tags AI代理
// @Produce json
// @Success 200 {array} model.AIAgentQuestion
// @Router /api/ai-agent-questions/ [get]
func (c *AIAgentController) ListQuestions(ctx *gin.Context) {
	questions, err := c.QuestionService.ListQuestions(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary AI 代理问卷题目详情
// @Tags AI代理
// @Produce json
// @Param id path int true "题目ID"
// @Success 200 {object} model.AIAgentQuestion
// @Failure 404 {object} util.ErrorResponse
// @Router /api/ai-agent-questions/{id}/ [get]
func (c *AIAgentController) GetQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrAIAgentQuestionNotFound)
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
