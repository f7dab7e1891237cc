package model

import (
	"path/filepath"
	"strings"
)

// Source 歌词源标识
type Source string

const (
	SourceKuwo    Source = "kw" // 酷我音乐
	SourceNetease Source = "ne" // 网易云音乐
)

// ParseSource 解析源标识，未知源返回 false
func ParseSource(s string) (Source, bool) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceKuwo:
		return SourceKuwo, true
	case SourceNetease:
		return SourceNetease, true
	}
	return "", false
}

// SearchType 搜索类型
type SearchType int

const (
	SearchTypeSong SearchType = iota // 歌曲搜索
)

// Song 歌曲信息
// 既作为调用方提交的查询条件，也作为各源搜索返回的候选条目。
// 构造后不再修改，派生新查询时复制一份。
type Song struct {
	Source   Source `json:"source,omitempty"`
	ID       string `json:"id,omitempty"` // 源内歌曲ID，搜索结果才有
	Title    string `json:"title,omitempty"`
	Artist   string `json:"artist,omitempty"` // 多个歌手时用分隔符连接
	Album    string `json:"album,omitempty"`
	Duration int    `json:"duration,omitempty"` // 毫秒，0 表示未知
	Path     string `json:"path,omitempty"`     // 文件路径，标题缺失时用文件名兜底搜索
}

// ArtistTitle 返回 "歌手 标题" 形式的搜索关键词
func (s *Song) ArtistTitle() string {
	if s.Artist == "" {
		return s.Title
	}
	return s.Artist + " " + s.Title
}

// Stem 返回文件路径中不含扩展名的文件名
func (s *Song) Stem() string {
	if s.Path == "" {
		return ""
	}
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Key 返回去重用的唯一标识，有ID时用 (source, id)，否则用全字段
func (s *Song) Key() string {
	if s.ID != "" {
		return string(s.Source) + "|" + s.ID
	}
	return strings.Join([]string{
		string(s.Source), s.Title, s.Artist, s.Album, s.Path,
	}, "|")
}

// Display 用于日志打印
func (s *Song) Display() string {
	if s.Artist == "" {
		return s.Title
	}
	return s.Title + " - " + s.Artist
}
