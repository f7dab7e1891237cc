package kuwo

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func TestConvertLyricsWordTiming(t *testing.T) {
	raw := strings.Join([]string{
		"[00:01.000]<0,100>Hello<200,100>World",
	}, "\n")
	// 词起始 |200+100|/2=150，行尾 |200-100|/2=50 再叠加
	want := "[00:01.000]Hello[00:01.150]World[00:01.200]"

	if got := convertLyrics(raw); got != want {
		t.Errorf("convertLyrics = %q, want %q", got, want)
	}
}

func TestConvertLyricsOctalScaleZeroGuard(t *testing.T) {
	// 010 按八进制是 8，拆成 0 和 8，十位为零触发回退，两个刻度都取 1
	raw := strings.Join([]string{
		"[kuwo:010]",
		"[00:01.000]<0,100>Hello<200,100>World",
	}, "\n")
	want := strings.Join([]string{
		"[kuwo:010]",
		"[00:01.000]Hello[00:01.150]World[00:01.200]",
	}, "\n")

	if got := convertLyrics(raw); got != want {
		t.Errorf("convertLyrics = %q, want %q", got, want)
	}
}

func TestConvertLyricsScaleApplied(t *testing.T) {
	// 24 的八进制是 030，即十进制 24：十位 2、个位 4
	raw := strings.Join([]string{
		"[kuwo:030]",
		"[00:01.000]<0,400>Hello<800,400>World",
	}, "\n")
	// scaleA=2: 词起始 |800+400|/4=300；scaleB=4: 时长 |800-400|/8=50
	want := strings.Join([]string{
		"[kuwo:030]",
		"[00:01.000]Hello[00:01.300]World[00:01.350]",
	}, "\n")

	if got := convertLyrics(raw); got != want {
		t.Errorf("convertLyrics = %q, want %q", got, want)
	}
}

func TestConvertLyricsDropsFillerLine(t *testing.T) {
	raw := strings.Join([]string{
		"[00:01.000]<0,100>A",
		"[00:01.500]<0,0>",
		"[00:02.000]<0,100>B",
	}, "\n")
	want := strings.Join([]string{
		"[00:01.000]A[00:01.100]",
		"[00:02.000]B[00:02.100]",
	}, "\n")

	if got := convertLyrics(raw); got != want {
		t.Errorf("convertLyrics = %q, want %q", got, want)
	}
}

func TestConvertLyricsMergesTranslation(t *testing.T) {
	raw := strings.Join([]string{
		"[00:10.000]<0,200>Hello<300,200>World",
		"[00:10.000]<0,0>你好世界",
		"[00:12.000]<0,200>Next",
	}, "\n")
	want := strings.Join([]string{
		"[00:10.000]Hello[00:10.250]World[00:10.300]",
		"[00:10.000]你好世界[00:12.000]",
		"[00:12.000]Next[00:12.200]",
	}, "\n")

	if got := convertLyrics(raw); got != want {
		t.Errorf("convertLyrics = %q, want %q", got, want)
	}
}

func TestConvertLyricsTranslationEndFallsBackToLineEnd(t *testing.T) {
	// 后面没有时间行时，翻译行的结束时间用上一行算出的结束时间
	raw := strings.Join([]string{
		"[00:10.000]<0,200>Bye",
		"[00:10.000]<0,0>再见",
	}, "\n")
	want := strings.Join([]string{
		"[00:10.000]Bye[00:10.200]",
		"[00:10.000]再见[00:10.200]",
	}, "\n")

	if got := convertLyrics(raw); got != want {
		t.Errorf("convertLyrics = %q, want %q", got, want)
	}
}

func TestConvertLyricsDropsOrphanTranslation(t *testing.T) {
	// 没有可归属的上一行，翻译行直接丢弃
	raw := "[00:05.000]<0,0>孤立翻译"
	if got := convertLyrics(raw); got != "" {
		t.Errorf("convertLyrics = %q, want empty", got)
	}
}

func TestConvertLyricsTimestampsMonotonic(t *testing.T) {
	raw := "[00:01.000]<0,100>a<150,100>b<300,100>c<450,100>d"
	got := convertLyrics(raw)

	stampRe := regexp.MustCompile(`\[(\d{2}):(\d{2})\.(\d{3})\]`)
	var prev int
	for _, m := range stampRe.FindAllStringSubmatch(got, -1) {
		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])
		millis, _ := strconv.Atoi(m[3])
		ms := minutes*60000 + seconds*1000 + millis
		if ms < prev {
			t.Fatalf("timestamps not monotonic in %q: %d after %d", got, ms, prev)
		}
		prev = ms
	}
}
