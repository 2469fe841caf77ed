package library

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListSeries 获取系列列表
// @Summary      获取系列列表
// @Description  列出书库中所有系列
// @Tags         书库
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/series [get]
func (h *Handler) ListSeries(c *gin.Context) {
	ctx := c.Request.Context()

	series, err := h.libraryService.ListSeries(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "获取系列列表失败",
			Detail:  err.Error(),
		})
		return
	}

	list := make([]SeriesInfo, 0, len(series))
	for _, s := range series {
		list = append(list, toSeriesInfo(s))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"series": list,
			"total":  len(list),
		},
	})
}
