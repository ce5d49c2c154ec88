package controller

import (
	"ai_academy_backend/internal/util"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

// pathID 解析路径中的 id，非法 id 与不存在的记录一样返回 404
func pathID(ctx *gin.Context, notFound error) (uint, bool) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.NotFound(ctx, notFound.Error())
		return 0, false
	}
	return id, true
}

// queryID 读取必填的查询参数，缺失或非法时返回 400
func queryID(ctx *gin.Context, name, message string) (uint, bool) {
	id, ok := util.ParseID(ctx.Query(name))
	if !ok {
		util.BadRequest(ctx, message)
		return 0, false
	}
	return id, true
}

// bindJSON 解析请求体；更新请求允许空请求体
func bindJSON(ctx *gin.Context, dst interface{}, allowEmpty bool) bool {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		util.BadRequest(ctx, err.Error())
		return false
	}
	return true
}
