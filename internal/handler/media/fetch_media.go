package media

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"fable/internal/service"
)

// FetchMediaRequest 媒体取流请求
type FetchMediaRequest struct {
	SceneID  string `uri:"scene_id" binding:"required"` // 场景ID（必填）
	Filename string `uri:"filename" binding:"required"` // 逻辑文件名（必填）
}

// FetchMedia 媒体取流
// @Summary      媒体取流
// @Description  交付某场景引用的媒体文件：OSS后端302跳转到短时效预签名URL，本地后端直接回源文件流
// @Tags         媒体
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        scene_id  path  string  true  "场景ID"
// @Param        filename  path  string  true  "逻辑文件名"
// @Success      200  {file}    binary
// @Success      302  {string}  string  "跳转到预签名URL"
// @Failure      404  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/scenes/{scene_id}/media/{filename} [get]
func (h *Handler) FetchMedia(c *gin.Context) {
	var req FetchMediaRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid media path",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	result, err := h.mediaService.Deliver(ctx, req.SceneID, req.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMediaNotFound),
			errors.Is(err, service.ErrSceneNotFound),
			errors.Is(err, service.ErrStoryNotFound),
			errors.Is(err, service.ErrSeriesNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    40401,
				Message: err.Error(),
			})
		case errors.Is(err, service.ErrStorageUnavailable):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Code:    50301,
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Code:    50001,
				Message: "媒体交付失败",
				Detail:  err.Error(),
			})
		}
		return
	}

	if result.RedirectURL != "" {
		c.Redirect(http.StatusFound, result.RedirectURL)
		return
	}

	defer func() {
		if err := result.Body.Close(); err != nil {
			log.Warn().Err(err).Str("filename", req.Filename).Msg("failed to close media stream")
		}
	}()

	c.DataFromReader(http.StatusOK, -1, result.ContentType, result.Body, nil)
}
