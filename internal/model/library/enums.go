package library

// MediaKind 媒体类型（用于 Trigger 和 MediaAsset）
type MediaKind string

const (
	MediaKindImage MediaKind = "image" // 插图
	MediaKindAudio MediaKind = "audio" // 音频
)

// String 返回类型的字符串表示
func (k MediaKind) String() string {
	return string(k)
}

// IsValid 检查媒体类型是否有效
func (k MediaKind) IsValid() bool {
	return k == MediaKindImage || k == MediaKindAudio
}

// Folder 返回该媒体类型在存储目录中对应的文件夹名
func (k MediaKind) Folder() string {
	if k == MediaKindAudio {
		return "audio"
	}
	return "images"
}
