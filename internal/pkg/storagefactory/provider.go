package storagefactory

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"fable/internal/config"
	"fable/internal/pkg/storage"
)

// Provider 进程级共享的存储句柄，惰性初始化
//
// 说明：凭证可能在启动后才就绪（环境变量注入延迟等），因此初始化失败
// 不能永久毒化句柄：失败后下一次请求会重试初始化；成功后缓存复用
type Provider struct {
	mu  sync.Mutex
	cfg *config.StorageConfig
	s   storage.Storage
}

// NewProvider 创建存储句柄提供者（不立即初始化）
func NewProvider(cfg *config.StorageConfig) *Provider {
	return &Provider{cfg: cfg}
}

// Get 获取存储实例：首次调用时初始化并缓存，之后复用同一实例
// 初始化失败时返回错误，后续调用会重新尝试
func (p *Provider) Get(ctx context.Context) (storage.Storage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.s != nil {
		return p.s, nil
	}

	s, err := NewStorage(ctx, p.cfg)
	if err != nil {
		log.Warn().Err(err).Str("type", p.cfg.Type).Msg("storage initialization failed, will retry on next request")
		return nil, err
	}

	log.Info().Str("type", s.GetStorageType()).Msg("storage initialized")
	p.s = s
	return p.s, nil
}

// Reset 丢弃已缓存的实例（测试用）
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s = nil
}
