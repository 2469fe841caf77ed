package library

import (
	"fable/internal/service"
)

// Handler 书库处理器
// 系列/故事/章节/场景的层级浏览接口
type Handler struct {
	libraryService *service.LibraryService
}

// NewHandler 创建书库处理器
func NewHandler(libraryService *service.LibraryService) *Handler {
	return &Handler{
		libraryService: libraryService,
	}
}
