package reader

import (
	httputil "fable/internal/pkg/http"
	"fable/internal/service"
)

// Handler 阅读处理器
// 场景/章节的注解阅读视图接口
type Handler struct {
	readerService *service.ReaderService
}

// NewHandler 创建阅读处理器
func NewHandler(readerService *service.ReaderService) *Handler {
	return &Handler{
		readerService: readerService,
	}
}

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse
