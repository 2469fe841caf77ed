package reader

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// GetChapterViewRequest 获取章节阅读视图请求
type GetChapterViewRequest struct {
	ChapterID string `uri:"chapter_id" binding:"required"` // 章节ID（必填）
}

// GetChapterView 获取章节阅读视图
// @Summary      获取章节阅读视图
// @Description  返回句子粒度、跨场景合并的注解文档，场景之间插入分隔单元
// @Tags         阅读
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        chapter_id  path      string  true  "章节ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/chapters/{chapter_id}/view [get]
func (h *Handler) GetChapterView(c *gin.Context) {
	var req GetChapterViewRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid chapter_id",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	view, err := h.readerService.ChapterView(ctx, req.ChapterID)
	if err != nil {
		if errors.Is(err, service.ErrChapterNotFound) ||
			errors.Is(err, service.ErrStoryNotFound) ||
			errors.Is(err, service.ErrSeriesNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    40401,
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "获取章节视图失败",
			Detail:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    view,
	})
}
