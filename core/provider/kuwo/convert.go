package kuwo

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	kuwoTagRe  = regexp.MustCompile(`\[kuwo:(\d+)\]`)
	lineTimeRe = regexp.MustCompile(`^\[(\d{2}):(\d{2})\.(\d{3})\](.*)$`)
	wordRe     = regexp.MustCompile(`<(-?\d+),(-?\d+)>([^<]*)`)
	cjkRe      = regexp.MustCompile(`[\x{4e00}-\x{9fa5}]`)
	markerRe   = regexp.MustCompile(`<0,0>`)
)

// formatTime 毫秒转 [mm:ss.mmm]，负值按 0 处理
func formatTime(ms float64) string {
	if ms < 0 {
		ms = 0
	}
	minutes := int(ms / 60000)
	seconds := int(math.Mod(ms, 60000) / 1000)
	millis := int(math.Mod(ms, 1000))
	return fmt.Sprintf("[%02d:%02d.%03d]", minutes, seconds, millis)
}

// convertLyrics 把酷我私有的逐字格式转成标准逐字 LRC。
//
// [kuwo:<digits>] 标签是八进制的时间刻度值，拆成十位和个位两个刻度，
// 任一为零则都回退到 1。词元形如 <a,b>text：
//
//	词起始 = |a+b| / (scaleA*2)，相对所在行
//	词时长 = |a-b| / (scaleB*2)，只取行内最后一个词元
//
// 首词元继承行时间戳，后续词元前插计算出的绝对时间戳，行尾追加结束
// 时间戳。内容剥掉 <0,0> 后为空的行整行丢弃。以 <0,0> 开头且含中文的
// 行是上一行的翻译，合并为上一行之后的第二输出行，结束时间向后找下
// 一个时间行的起始，找不到就用上一行算出的结束时间。
func convertLyrics(raw string) string {
	lines := splitRawLines(raw)

	scaleA, scaleB := 1.0, 1.0
	if m := kuwoTagRe.FindStringSubmatch(raw); m != nil {
		if value, err := strconv.ParseInt(m[1], 8, 64); err == nil {
			a, b := float64(value/10), float64(value%10)
			if a == 0 || b == 0 {
				a, b = 1, 1
			}
			scaleA, scaleB = a, b
		}
	}

	var processed []string
	for i := 0; i < len(lines); i++ {
		m := lineTimeRe.FindStringSubmatch(lines[i])
		if m == nil {
			processed = append(processed, lines[i])
			continue
		}

		content := m[4]
		if strings.TrimSpace(markerRe.ReplaceAllString(content, "")) == "" {
			continue
		}

		timeStr := m[1] + ":" + m[2] + "." + m[3]
		lineStart := atoi(m[1])*60000 + atoi(m[2])*1000 + atoi(m[3])

		// 直接遇到的翻译行说明上一行没有消费它，丢弃
		if isTranslation(content) {
			continue
		}

		words := wordRe.FindAllStringSubmatch(content, -1)
		var sb strings.Builder
		for j, w := range words {
			if j == 0 {
				sb.WriteString(w[3])
				continue
			}
			sb.WriteString(formatTime(float64(lineStart) + wordStartMs(w, scaleA)))
			sb.WriteString(w[3])
		}

		endStamp := ""
		if len(words) > 0 {
			last := words[len(words)-1]
			start := wordStartMs(last, scaleA)
			duration := wordDurationMs(last, scaleB)
			endStamp = formatTime(float64(lineStart) + start + duration)
		}

		transText, transEnd := "", ""
		if i+1 < len(lines) {
			if nm := lineTimeRe.FindStringSubmatch(lines[i+1]); nm != nil && isTranslation(nm[4]) {
				transText = strings.TrimSpace(markerRe.ReplaceAllString(nm[4], ""))
				// 结束时间取后面第一个带时间戳的行，翻译行也算
				for j := i + 2; j < len(lines); j++ {
					if fm := lineTimeRe.FindStringSubmatch(lines[j]); fm != nil {
						transEnd = "[" + fm[1] + ":" + fm[2] + "." + fm[3] + "]"
						break
					}
				}
				if transEnd == "" {
					transEnd = endStamp
				}
				i++
			}
		}

		processed = append(processed, "["+timeStr+"]"+sb.String()+endStamp)
		if transText != "" {
			processed = append(processed, "["+timeStr+"]"+transText+transEnd)
		}
	}
	return strings.Join(processed, "\n")
}

// isTranslation 以 <0,0> 开头且含 CJK 字符的行是翻译行
func isTranslation(content string) bool {
	return strings.HasPrefix(content, "<0,0>") && cjkRe.MatchString(content)
}

// wordStartMs 词元相对行起始的偏移
func wordStartMs(w []string, scaleA float64) float64 {
	a, b := atoi(w[1]), atoi(w[2])
	return math.Abs(float64(a+b) / (scaleA * 2))
}

// wordDurationMs 词元时长
func wordDurationMs(w []string, scaleB float64) float64 {
	a, b := atoi(w[1]), atoi(w[2])
	return math.Abs(float64(a-b) / (scaleB * 2))
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func splitRawLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	return strings.Split(raw, "\n")
}
