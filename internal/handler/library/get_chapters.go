package library

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// GetChaptersRequest 获取章节列表请求
type GetChaptersRequest struct {
	StoryID string `uri:"story_id" binding:"required"` // 故事ID（必填）
}

// GetChapters 获取章节列表
// @Summary      获取章节列表
// @Description  列出某故事的所有章节，按序号排列
// @Tags         书库
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        story_id  path      string  true  "故事ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/stories/{story_id}/chapters [get]
func (h *Handler) GetChapters(c *gin.Context) {
	var req GetChaptersRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid story_id",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	chapters, err := h.libraryService.GetChapters(ctx, req.StoryID)
	if err != nil {
		if errors.Is(err, service.ErrStoryNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    40401,
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "获取章节列表失败",
			Detail:  err.Error(),
		})
		return
	}

	list := make([]ChapterInfo, 0, len(chapters))
	for _, ch := range chapters {
		list = append(list, toChapterInfo(ch))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"chapters": list,
			"total":    len(list),
		},
	})
}
