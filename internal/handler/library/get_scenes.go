package library

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// GetScenesRequest 获取场景列表请求
type GetScenesRequest struct {
	ChapterID string `uri:"chapter_id" binding:"required"` // 章节ID（必填）
}

// GetScenes 获取场景列表
// @Summary      获取场景列表
// @Description  列出某章节的所有场景，按顺序排列（不含正文，正文通过阅读视图获取）
// @Tags         书库
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        chapter_id  path      string  true  "章节ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/chapters/{chapter_id}/scenes [get]
func (h *Handler) GetScenes(c *gin.Context) {
	var req GetScenesRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid chapter_id",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	scenes, err := h.libraryService.GetScenes(ctx, req.ChapterID)
	if err != nil {
		if errors.Is(err, service.ErrChapterNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    40401,
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "获取场景列表失败",
			Detail:  err.Error(),
		})
		return
	}

	list := make([]SceneInfo, 0, len(scenes))
	for _, s := range scenes {
		list = append(list, toSceneInfo(s))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"scenes": list,
			"total":  len(list),
		},
	})
}
