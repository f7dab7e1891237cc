package model

// 语言轨道标签
const (
	LangOrig  = "orig" // 原文
	LangTrans = "ts"   // 翻译
	LangRoma  = "roma" // 罗马音
)

// LyricsType 歌词时间粒度
type LyricsType int

const (
	LyricsTypeUnknown    LyricsType = iota
	LyricsTypeLineByLine            // 逐行
	LyricsTypeVerbatim              // 逐字
)

// LyricWord 逐字歌词中的一个词
type LyricWord struct {
	Start int    `json:"start"` // 绝对毫秒
	End   int    `json:"end"`   // 0 表示未知
	Text  string `json:"text"`
}

// LyricLine 一行歌词
type LyricLine struct {
	Start int         `json:"start"` // 绝对毫秒
	End   int         `json:"end"`   // 0 表示未知
	Text  string      `json:"text"`
	Words []LyricWord `json:"words,omitempty"` // 逐字信息，逐行歌词为空
}

// Lyrics 一首歌的歌词文档
// 由产生它的候选歌曲独占，不跨候选共享。
type Lyrics struct {
	Info  Song                   `json:"info"`
	Tags  map[string]string      `json:"tags"`
	Data  map[string][]LyricLine `json:"data"`  // 语言标签 -> 歌词行
	Types map[string]LyricsType  `json:"types"` // 语言标签 -> 时间粒度
}

// NewLyrics 创建空歌词文档
func NewLyrics(info Song) *Lyrics {
	return &Lyrics{
		Info:  info,
		Tags:  make(map[string]string),
		Data:  make(map[string][]LyricLine),
		Types: make(map[string]LyricsType),
	}
}

// SetData 设置某语言轨道的歌词行并判定其时间粒度
func (l *Lyrics) SetData(lang string, lines []LyricLine) {
	if len(lines) == 0 {
		return
	}
	l.Data[lang] = lines
	l.Types[lang] = judgeType(lines)
}

// Has 判断是否存在某语言轨道
func (l *Lyrics) Has(lang string) bool {
	return len(l.Data[lang]) > 0
}

// judgeType 任意一行带多个逐字时间戳即视为逐字歌词
func judgeType(lines []LyricLine) LyricsType {
	for _, line := range lines {
		if len(line.Words) > 1 {
			return LyricsTypeVerbatim
		}
	}
	return LyricsTypeLineByLine
}
