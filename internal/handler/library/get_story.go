package library

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/service"
)

// GetStoryRequest 获取故事详情请求
type GetStoryRequest struct {
	StoryID string `uri:"story_id" binding:"required"` // 故事ID（必填）
}

// GetStoryResponseData 故事详情响应数据
type GetStoryResponseData struct {
	Story    StoryInfo     `json:"story"`
	Series   SeriesInfo    `json:"series"`
	Chapters []ChapterInfo `json:"chapters"`
}

// GetStory 获取故事详情
// @Summary      获取故事详情
// @Description  获取故事详情及其章节列表
// @Tags         书库
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        story_id  path      string  true  "故事ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/stories/{story_id} [get]
func (h *Handler) GetStory(c *gin.Context) {
	var req GetStoryRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid story_id",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	detail, err := h.libraryService.GetStory(ctx, req.StoryID)
	if err != nil {
		if errors.Is(err, service.ErrStoryNotFound) || errors.Is(err, service.ErrSeriesNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    40401,
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "获取故事详情失败",
			Detail:  err.Error(),
		})
		return
	}

	chapters := make([]ChapterInfo, 0, len(detail.Chapters))
	for _, ch := range detail.Chapters {
		chapters = append(chapters, toChapterInfo(ch))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": GetStoryResponseData{
			Story:    toStoryInfo(detail.Story),
			Series:   toSeriesInfo(detail.Series),
			Chapters: chapters,
		},
	})
}
