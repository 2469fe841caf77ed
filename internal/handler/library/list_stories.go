package library

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// ListStoriesRequest 获取故事列表请求
type ListStoriesRequest struct {
	SeriesID string `uri:"series_id" binding:"required"` // 系列ID（必填）
}

// ListStories 获取某系列的故事列表
// @Summary      获取故事列表
// @Description  列出某系列下的所有故事，按顺序排列
// @Tags         书库
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        series_id  path      string  true  "系列ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/series/{series_id}/stories [get]
func (h *Handler) ListStories(c *gin.Context) {
	var req ListStoriesRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid series_id",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	stories, err := h.libraryService.ListStories(ctx, req.SeriesID)
	if err != nil {
		if errors.Is(err, service.ErrSeriesNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    40401,
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "获取故事列表失败",
			Detail:  err.Error(),
		})
		return
	}

	list := make([]StoryInfo, 0, len(stories))
	for _, s := range stories {
		list = append(list, toStoryInfo(s))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"stories": list,
			"total":   len(list),
		},
	})
}
