// Package lyrics 负责把 LRC 文本解析成结构化歌词文档，以及把文档渲染回 LRC。
package lyrics

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"LrcFM/model"
)

var (
	timestampRe = regexp.MustCompile(`\[(\d{1,2}):(\d{2})[.:](\d{2,3})\]`)
	tagRe       = regexp.MustCompile(`^\[([a-zA-Z]+):(.*)\]$`)
)

// Parse 解析一段 LRC 文本为歌词文档。
// 与前一行起始时间相同的行视为该行的翻译，归入 "ts" 轨道。
func Parse(text string, info model.Song) *model.Lyrics {
	ly := model.NewLyrics(info)
	ly.Tags = ParseTags(text)

	lines := ParseLines(text)
	var orig, trans []model.LyricLine
	for _, line := range lines {
		if n := len(orig); n > 0 && orig[n-1].Start == line.Start {
			trans = append(trans, line)
			continue
		}
		orig = append(orig, line)
	}
	ly.SetData(model.LangOrig, orig)
	ly.SetData(model.LangTrans, trans)
	return ly
}

// ParseTags 提取 [ti:...] 形式的元数据标签
func ParseTags(text string) map[string]string {
	tags := make(map[string]string)
	for _, line := range splitLines(text) {
		if timestampRe.MatchString(line) {
			continue
		}
		if m := tagRe.FindStringSubmatch(line); m != nil {
			tags[m[1]] = strings.TrimSpace(m[2])
		}
	}
	return tags
}

// ParseLines 解析所有带时间戳的歌词行。
// 行内时间戳切分出逐字信息，行尾紧跟的空时间戳作为该行的结束时间。
func ParseLines(text string) []model.LyricLine {
	var result []model.LyricLine
	for _, raw := range splitLines(text) {
		locs := timestampRe.FindAllStringSubmatchIndex(raw, -1)
		if len(locs) == 0 || locs[0][0] != 0 {
			continue
		}

		// 行首可能有多个重复时间戳（副歌共用一份文本）
		var starts []int
		end := 0
		for _, loc := range locs {
			if loc[0] != end {
				break
			}
			starts = append(starts, stampMs(raw, loc))
			end = loc[1]
		}
		content := raw[end:]
		inner := timestampRe.FindAllStringSubmatchIndex(content, -1)

		line := buildLine(starts[0], content, inner)
		if line.Text == "" && len(line.Words) == 0 {
			continue
		}
		result = append(result, line)
		if len(inner) == 0 {
			for _, s := range starts[1:] {
				dup := line
				dup.Start = s
				result = append(result, dup)
			}
		}
	}
	return result
}

// buildLine 用行内时间戳把内容切成逐字词
func buildLine(start int, content string, inner [][]int) model.LyricLine {
	line := model.LyricLine{Start: start}
	if len(inner) == 0 {
		line.Text = content
		return line
	}

	segStart := 0
	var words []model.LyricWord
	prev := start
	for _, loc := range inner {
		text := content[segStart:loc[0]]
		stamp := stampMs(content, loc)
		if text != "" {
			words = append(words, model.LyricWord{Start: prev, End: stamp, Text: text})
		}
		prev = stamp
		segStart = loc[1]
	}
	if tail := content[segStart:]; tail != "" {
		words = append(words, model.LyricWord{Start: prev, Text: tail})
	} else {
		line.End = prev
	}

	line.Words = words
	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(w.Text)
	}
	line.Text = sb.String()
	return line
}

// Render 把歌词文档按语言顺序渲染为 LRC 文本。
// 同一起始时间的多语言行按 langs 给定的顺序相邻输出。
func Render(ly *model.Lyrics, langs []string) string {
	type entry struct {
		line model.LyricLine
		lang int
	}
	var entries []entry
	for i, lang := range langs {
		for _, line := range ly.Data[lang] {
			entries = append(entries, entry{line, i})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].line.Start != entries[j].line.Start {
			return entries[i].line.Start < entries[j].line.Start
		}
		return entries[i].lang < entries[j].lang
	})

	var sb strings.Builder
	for _, key := range []string{"ti", "ar", "al", "by"} {
		if v, ok := ly.Tags[key]; ok && v != "" {
			sb.WriteString("[" + key + ":" + v + "]\n")
		}
	}
	for _, e := range entries {
		sb.WriteString(renderLine(e.line))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderLine(line model.LyricLine) string {
	var sb strings.Builder
	sb.WriteString(formatTime(line.Start))
	if len(line.Words) == 0 {
		sb.WriteString(line.Text)
		return sb.String()
	}
	for i, w := range line.Words {
		if i > 0 {
			sb.WriteString(formatTime(w.Start))
		}
		sb.WriteString(w.Text)
	}
	if end := lineEnd(line); end > 0 {
		sb.WriteString(formatTime(end))
	}
	return sb.String()
}

func lineEnd(line model.LyricLine) int {
	if line.End > 0 {
		return line.End
	}
	if n := len(line.Words); n > 0 {
		return line.Words[n-1].End
	}
	return 0
}

func formatTime(ms int) string {
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("[%02d:%02d.%03d]", ms/60000, ms%60000/1000, ms%1000)
}

// stampMs 把一个时间戳匹配转成毫秒，两位小数按厘秒处理
func stampMs(s string, loc []int) int {
	minutes, _ := strconv.Atoi(s[loc[2]:loc[3]])
	seconds, _ := strconv.Atoi(s[loc[4]:loc[5]])
	frac := s[loc[6]:loc[7]]
	ms, _ := strconv.Atoi(frac)
	if len(frac) == 2 {
		ms *= 10
	}
	return minutes*60000 + seconds*1000 + ms
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
