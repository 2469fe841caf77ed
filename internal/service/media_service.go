package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"fable/internal/model/library"
	"fable/internal/pkg/id"
	"fable/internal/pkg/storage"
	libraryRepo "fable/internal/repository/library"
)

var (
	ErrMediaNotFound      = errors.New("媒体文件不存在")
	ErrStorageUnavailable = errors.New("存储服务不可用")
)

// 预签名下载URL有效期
const presignTTL = 300 * time.Second

// StorageProvider 存储句柄提供者（惰性初始化，失败可重试）
type StorageProvider interface {
	Get(ctx context.Context) (storage.Storage, error)
}

// MediaKeyPrefix 构造某故事某媒体类型的存储目录前缀
// 布局约定：media/series/{series_slug}/{story_slug}/scenes/{images|audio}/
func MediaKeyPrefix(seriesSlug, storySlug string, kind library.MediaKind) string {
	return path.Join("media", "series", seriesSlug, storySlug, "scenes", kind.Folder()) + "/"
}

// MediaKey 构造媒体文件的完整存储key
func MediaKey(seriesSlug, storySlug string, kind library.MediaKind, filename string) string {
	return MediaKeyPrefix(seriesSlug, storySlug, kind) + filename
}

// MediaService 媒体服务：逻辑文件名的定位、注册与安全交付
type MediaService struct {
	assetRepo   libraryRepo.MediaAssetRepository
	triggerRepo libraryRepo.TriggerRepository
	sceneRepo   libraryRepo.SceneRepository
	chapterRepo libraryRepo.ChapterRepository
	storyRepo   libraryRepo.StoryRepository
	seriesRepo  libraryRepo.SeriesRepository
	provider    StorageProvider
}

// NewMediaService 创建媒体服务
func NewMediaService(
	assetRepo libraryRepo.MediaAssetRepository,
	triggerRepo libraryRepo.TriggerRepository,
	sceneRepo libraryRepo.SceneRepository,
	chapterRepo libraryRepo.ChapterRepository,
	storyRepo libraryRepo.StoryRepository,
	seriesRepo libraryRepo.SeriesRepository,
	provider StorageProvider,
) *MediaService {
	return &MediaService{
		assetRepo:   assetRepo,
		triggerRepo: triggerRepo,
		sceneRepo:   sceneRepo,
		chapterRepo: chapterRepo,
		storyRepo:   storyRepo,
		seriesRepo:  seriesRepo,
		provider:    provider,
	}
}

// EnsureAsset 确保触发点指向的媒体文件已注册，返回注册表记录
//
// 流程：
//  1. 注册表按 filename 命中则直接返回（不访问存储后端）
//  2. 未命中时列出存储目录，按裸文件名匹配；匹配成功则幂等注册
//     并回填触发点的 asset_id
//  3. 目录中无此文件返回 ErrMediaNotFound；同一请求内不再重试
func (s *MediaService) EnsureAsset(ctx context.Context, trigger *library.Trigger, seriesSlug, storySlug string) (*library.MediaAsset, error) {
	if asset, err := s.assetRepo.FindByFilename(ctx, trigger.Filename); err == nil {
		return asset, nil
	}

	st, err := s.provider.Get(ctx)
	if err != nil {
		return nil, ErrStorageUnavailable
	}

	prefix := MediaKeyPrefix(seriesSlug, storySlug, trigger.Kind)
	objects, err := st.List(ctx, prefix)
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to list media directory")
		return nil, ErrStorageUnavailable
	}

	var matched *storage.ObjectInfo
	for i := range objects {
		if objects[i].Name == trigger.Filename {
			matched = &objects[i]
			break
		}
	}
	if matched == nil {
		return nil, ErrMediaNotFound
	}

	saved, err := s.assetRepo.Upsert(ctx, &library.MediaAsset{
		ID:          id.New(),
		Filename:    trigger.Filename,
		Kind:        trigger.Kind,
		PhysicalRef: matched.Key,
	})
	if err != nil {
		log.Error().Err(err).Str("filename", trigger.Filename).Msg("failed to register media asset")
		return nil, err
	}

	// asset_id 回填失败不影响本次解析，下次会再次回填
	if trigger.ID != "" {
		if err := s.triggerRepo.LinkAsset(ctx, trigger.ID, saved.ID); err != nil {
			log.Warn().Err(err).Str("trigger_id", trigger.ID).Msg("failed to link asset to trigger")
		}
	}

	log.Info().
		Str("filename", saved.Filename).
		Str("physical_ref", saved.PhysicalRef).
		Msg("media asset registered")

	return saved, nil
}

// DeliveryResult 媒体交付结果
// RedirectURL 非空时客户端应302跳转；否则 Body 为文件流（调用方负责关闭）
type DeliveryResult struct {
	RedirectURL string
	Body        io.ReadCloser
	ContentType string
}

// Deliver 交付某场景引用的媒体文件
//
// 注册表未命中时尝试按场景层级（场景→章节→故事→系列）定位并注册；
// OSS后端返回短时效预签名URL，本地后端直接回源文件流
func (s *MediaService) Deliver(ctx context.Context, sceneID, filename string) (*DeliveryResult, error) {
	asset, err := s.resolveForScene(ctx, sceneID, filename)
	if err != nil {
		return nil, err
	}

	st, err := s.provider.Get(ctx)
	if err != nil {
		return nil, ErrStorageUnavailable
	}

	if st.GetStorageType() == string(storage.StorageTypeOSS) {
		url, err := st.GetPresignedDownloadURL(ctx, asset.PhysicalRef, presignTTL)
		if err != nil {
			log.Error().Err(err).Str("key", asset.PhysicalRef).Msg("failed to presign download url")
			return nil, ErrStorageUnavailable
		}
		return &DeliveryResult{RedirectURL: url}, nil
	}

	body, err := st.Download(ctx, asset.PhysicalRef)
	if err != nil {
		log.Error().Err(err).Str("key", asset.PhysicalRef).Msg("failed to open media file")
		return nil, ErrMediaNotFound
	}

	return &DeliveryResult{
		Body:        body,
		ContentType: mediaContentType(asset.Kind, asset.Filename),
	}, nil
}

// resolveForScene 在某场景上下文内解析逻辑文件名到注册表记录
func (s *MediaService) resolveForScene(ctx context.Context, sceneID, filename string) (*library.MediaAsset, error) {
	if asset, err := s.assetRepo.FindByFilename(ctx, filename); err == nil {
		return asset, nil
	}

	// 未注册：通过场景的触发点确定媒体类型，再走定位注册流程
	triggers, err := s.triggerRepo.FindBySceneID(ctx, sceneID)
	if err != nil {
		return nil, err
	}
	var trigger *library.Trigger
	for _, t := range triggers {
		if t.Filename == filename {
			trigger = t
			break
		}
	}
	if trigger == nil {
		return nil, ErrMediaNotFound
	}

	seriesSlug, storySlug, err := s.slugsForScene(ctx, sceneID)
	if err != nil {
		return nil, err
	}

	return s.EnsureAsset(ctx, trigger, seriesSlug, storySlug)
}

// slugsForScene 沿场景→章节→故事→系列取出存储路径需要的 slug
func (s *MediaService) slugsForScene(ctx context.Context, sceneID string) (seriesSlug, storySlug string, err error) {
	scene, err := s.sceneRepo.FindByID(ctx, sceneID)
	if err != nil {
		return "", "", ErrSceneNotFound
	}
	story, err := s.storyRepo.FindByID(ctx, scene.StoryID)
	if err != nil {
		return "", "", ErrStoryNotFound
	}
	series, err := s.seriesRepo.FindByID(ctx, story.SeriesID)
	if err != nil {
		return "", "", ErrSeriesNotFound
	}
	return series.Slug, story.Slug, nil
}

// mediaContentType 根据媒体类型和扩展名确定Content-Type
// 图片仅区分 jpeg/png，音频统一按 mp3 交付
func mediaContentType(kind library.MediaKind, filename string) string {
	if kind == library.MediaKindAudio {
		return "audio/mpeg"
	}
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "image/png"
	}
}
