package library

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// RecomputeChapterStatsRequest 重新统计章节请求
type RecomputeChapterStatsRequest struct {
	ChapterID string `uri:"chapter_id" binding:"required"` // 章节ID（必填）
}

// RecomputeChapterStats 重新统计章节正文
// @Summary      重新统计章节正文
// @Description  重新统计章节下所有场景正文的字符数/字数/行数并落库
// @Tags         书库
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        chapter_id  path      string  true  "章节ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/chapters/{chapter_id}/stats [post]
func (h *Handler) RecomputeChapterStats(c *gin.Context) {
	var req RecomputeChapterStatsRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid chapter_id",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	stats, err := h.libraryService.RecomputeChapterStats(ctx, req.ChapterID)
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
			Message: "统计章节正文失败",
			Detail:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"total_chars": stats.TotalChars,
			"word_count":  stats.WordCount,
			"line_count":  stats.LineCount,
		},
	})
}
