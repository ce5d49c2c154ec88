package controller

import (
	"ai_academy_backend/internal/service"
	"ai_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Success 200 {array} model.User
// @Router /api/users/ [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	users, err := c.UserService.ListUsers(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// @Summary 创建用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param user body service.CreateUserInput true "用户信息"
// @Success 201 {object} model.User
// @Failure 400 {object} util.ErrorResponse
// @Router /api/users/ [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req service.CreateUserInput
	if !bindJSON(ctx, &req, false) {
		return
	}

	user, err := c.UserService.CreateUser(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, user)
}

// @Summary 用户详情
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} model.User
// @Failure 404 {object} util.ErrorResponse
// @Router /api/users/{id}/ [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrUserNotFound)
	if !ok {
		return
	}

	user, err := c.UserService.GetUser(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// @Summary 更新用户
// @Description PUT 与 PATCH 均只更新请求中提供的字段
// @Tags 用户
// @Accept json
// @Produce json
// @Param id path int true "用户ID"
// @Param user body service.UpdateUserInput true "用户信息"
// @Success 200 {object} model.User
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/users/{id}/ [put]
// @Router /api/users/{id}/ [patch]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrUserNotFound)
	if !ok {
		return
	}
	var req service.UpdateUserInput
	if !bindJSON(ctx, &req, true) {
		return
	}

	user, err := c.UserService.UpdateUser(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// @Summary 删除用户
// @Description 同时删除该用户的学习进度、测试结果和 AI 代理
// @Tags 用户
// @Param id path int true "用户ID"
// @Success 204
// @Failure 404 {object} util.ErrorResponse
// @Router /api/users/{id}/ [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrUserNotFound)
	if !ok {
		return
	}

	if err := c.UserService.DeleteUser(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// @Summary 用户详情（含学习进度）
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} model.UserDetail
// @Failure 404 {object} util.ErrorResponse
// @Router /api/users/{id}/detail_with_progress/ [get]
func (c *UserController) DetailWithProgress(ctx *gin.Context) {
	id, ok := pathID(ctx, util.ErrUserNotFound)
	if !ok {
		return
	}

	detail, err := c.UserService.GetUserDetail(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 搜索用户
// @Description 按用户名、邮箱、部门模糊匹配，不区分大小写
// @Tags 用户
// @Produce json
// @Param q query string false "关键字"
// @Success 200 {array} model.User
// @Router /api/users/search/ [get]
func (c *UserController) SearchUsers(ctx *gin.Context) {
	users, err := c.UserService.SearchUsers(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, users)
}
