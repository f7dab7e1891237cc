package model

// SearchMeta 一次搜索请求的元数据
type SearchMeta struct {
	Source     Source     `json:"source"`
	Keyword    string     `json:"keyword"`
	SearchType SearchType `json:"searchType"`
	Page       int        `json:"page"` // 从 1 开始
}

// Range 分页范围，Start/End 为结果在全量中的下标
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Total int `json:"total"`
}

// SearchResult 搜索结果页
// Songs 的顺序有意义，后续的交错合并和排名都依赖插入顺序。
// 不同源的结果页可以拼接，拼接保持各页内部顺序并追加元数据。
type SearchResult struct {
	Songs  []Song       `json:"songs"`
	Metas  []SearchMeta `json:"metas"`
	Ranges []Range      `json:"ranges"`
}

// NewSearchResult 创建单源单页的搜索结果
func NewSearchResult(songs []Song, meta SearchMeta, rng Range) *SearchResult {
	return &SearchResult{
		Songs:  songs,
		Metas:  []SearchMeta{meta},
		Ranges: []Range{rng},
	}
}

// Concat 返回 r 与 other 拼接后的新结果页，不修改原值
func (r *SearchResult) Concat(other *SearchResult) *SearchResult {
	if other == nil {
		return r
	}
	merged := &SearchResult{
		Songs:  make([]Song, 0, len(r.Songs)+len(other.Songs)),
		Metas:  make([]SearchMeta, 0, len(r.Metas)+len(other.Metas)),
		Ranges: make([]Range, 0, len(r.Ranges)+len(other.Ranges)),
	}
	merged.Songs = append(append(merged.Songs, r.Songs...), other.Songs...)
	merged.Metas = append(append(merged.Metas, r.Metas...), other.Metas...)
	merged.Ranges = append(append(merged.Ranges, r.Ranges...), other.Ranges...)
	return merged
}
