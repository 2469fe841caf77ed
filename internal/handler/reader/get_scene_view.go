package reader

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// GetSceneViewRequest 获取场景阅读视图请求
type GetSceneViewRequest struct {
	SceneID string `uri:"scene_id" binding:"required"` // 场景ID（必填）
}

// GetSceneView 获取场景阅读视图
// @Summary      获取场景阅读视图
// @Description  返回段落粒度的注解文档：有序文本单元、单元级媒体引用和默认展示媒体
// @Tags         阅读
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        scene_id  path      string  true  "场景ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/scenes/{scene_id}/view [get]
func (h *Handler) GetSceneView(c *gin.Context) {
	var req GetSceneViewRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid scene_id",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	view, err := h.readerService.SceneView(ctx, req.SceneID)
	if err != nil {
		if errors.Is(err, service.ErrSceneNotFound) ||
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
			Message: "获取场景视图失败",
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
