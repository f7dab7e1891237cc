package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextDifference(t *testing.T) {
	assert.Equal(t, 1.0, TextDifference("", ""))
	assert.Equal(t, 1.0, TextDifference("晴天", "晴天"))
	assert.Equal(t, 0.0, TextDifference("aaaa", "zzzz"))
	assert.InDelta(t, 0.75, TextDifference("aaaa", "aaab"), 1e-9)
}

func TestSimilarityRange(t *testing.T) {
	pairs := [][2]string{
		{"晴天", "晴天"},
		{"晴天", "阴天"},
		{"hello world", "HELLO WORLD"},
		{"", "anything"},
	}
	for _, p := range pairs {
		s := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 100.0)
	}
}

func TestSimilarityNormalizes(t *testing.T) {
	assert.Equal(t, 100.0, Similarity("Hello", "hello"))
	assert.Equal(t, 100.0, Similarity("  晴天  ", "晴天"))
}

func TestArtistScoreMultipleNames(t *testing.T) {
	// 查询侧每个名字都能在候选侧找到完全匹配
	assert.Equal(t, 100.0, ArtistScore("周杰伦/费玉清", "费玉清、周杰伦"))
	// 只有一半匹配
	assert.InDelta(t, 50.0, ArtistScore("周杰伦/abcd", "周杰伦/wxyz"), 1e-9)
}

func TestArtistScoreSingleName(t *testing.T) {
	assert.Equal(t, 100.0, ArtistScore("周杰伦", "周杰伦"))
	assert.Less(t, ArtistScore("周杰伦", "林俊杰"), 100.0)
}
