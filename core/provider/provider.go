package provider

import (
	"LrcFM/model"
)

// Provider 歌词源适配器统一接口
// 普通的网络错误、响应格式错误属于源的日常故障，实现必须吞掉并返回
// (nil, nil)，只在程序性异常时返回 error。支撑的源在编译期固定。
type Provider interface {
	// Source 返回源标识
	Source() model.Source

	// Search 按关键词搜索歌曲，page 从 1 开始。
	// 不支持的 searchType 返回 (nil, nil)。
	Search(keyword string, searchType model.SearchType, page int) (*model.SearchResult, error)

	// GetLyrics 获取一个候选歌曲的完整歌词。
	// ID 缺失、请求失败、载荷无法解码时返回 (nil, nil)。
	GetLyrics(song *model.Song) (*model.Lyrics, error)
}

// Manager 歌词源管理器
type Manager struct {
	providers map[model.Source]Provider
	order     []model.Source
}

// NewManager 创建源管理器
func NewManager() *Manager {
	return &Manager{
		providers: make(map[model.Source]Provider),
	}
}

// Register 注册一个源，重复注册以后者为准
func (m *Manager) Register(p Provider) {
	if _, exists := m.providers[p.Source()]; !exists {
		m.order = append(m.order, p.Source())
	}
	m.providers[p.Source()] = p
}

// Get 获取指定源的适配器
func (m *Manager) Get(source model.Source) (Provider, bool) {
	p, ok := m.providers[source]
	return p, ok
}

// Sources 按注册顺序返回所有源标识
func (m *Manager) Sources() []model.Source {
	out := make([]model.Source, len(m.order))
	copy(out, m.order)
	return out
}
