package media

import (
	httputil "fable/internal/pkg/http"
	"fable/internal/service"
)

// Handler 媒体处理器
// 受登录保护的媒体取流接口，存储后端细节不对客户端暴露
type Handler struct {
	mediaService *service.MediaService
}

// NewHandler 创建媒体处理器
func NewHandler(mediaService *service.MediaService) *Handler {
	return &Handler{
		mediaService: mediaService,
	}
}

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse
