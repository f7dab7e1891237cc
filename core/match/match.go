package match

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// 歌手名常见分隔符
var artistSeparators = []string{"/", "、", ",", "，", "&", ";"}

// TextDifference 计算两段文本的相似度，返回 0~1
func TextDifference(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

// Similarity 返回 0~100 的相似度分数
func Similarity(a, b string) float64 {
	return TextDifference(normalize(a), normalize(b)) * 100
}

// TitleScore 标题相似度，0~100
func TitleScore(query, candidate string) float64 {
	return Similarity(query, candidate)
}

// ArtistScore 歌手相似度，0~100
// 多歌手时按名字拆分，对查询侧每个名字取候选侧的最佳配对再平均。
func ArtistScore(query, candidate string) float64 {
	queryNames := splitArtists(query)
	candNames := splitArtists(candidate)
	if len(queryNames) == 0 || len(candNames) == 0 {
		return Similarity(query, candidate)
	}

	var total float64
	for _, qn := range queryNames {
		best := 0.0
		for _, cn := range candNames {
			if s := Similarity(qn, cn); s > best {
				best = s
			}
		}
		total += best
	}
	return total / float64(len(queryNames))
}

func splitArtists(s string) []string {
	parts := []string{s}
	for _, sep := range artistSeparators {
		var next []string
		for _, part := range parts {
			next = append(next, strings.Split(part, sep)...)
		}
		parts = next
	}
	var names []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
