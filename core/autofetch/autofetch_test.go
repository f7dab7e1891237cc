package autofetch

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"LrcFM/core/pool"
	"LrcFM/core/provider"
	"LrcFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// docSpec 描述桩源为某个候选返回的歌词文档该有哪些轨道
type docSpec struct {
	verbatim bool
	ts       bool
	roma     bool
}

// stubProvider 测试用歌词源
type stubProvider struct {
	src       model.Source
	songs     []model.Song
	docs      map[string]docSpec
	delay     time.Duration
	searchErr error

	lastKeyword atomic.Value
}

func newStub(src model.Source, songs ...model.Song) *stubProvider {
	return &stubProvider{src: src, songs: songs, docs: make(map[string]docSpec)}
}

func (s *stubProvider) withDoc(id string, spec docSpec) *stubProvider {
	s.docs[id] = spec
	return s
}

func (s *stubProvider) Source() model.Source { return s.src }

func (s *stubProvider) Search(keyword string, searchType model.SearchType, page int) (*model.SearchResult, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	if len(s.songs) == 0 {
		return nil, nil
	}
	s.lastKeyword.Store(keyword)

	meta := model.SearchMeta{Source: s.src, Keyword: keyword, SearchType: searchType, Page: page}
	rng := model.Range{Start: 0, End: len(s.songs) - 1, Total: len(s.songs)}
	return model.NewSearchResult(s.songs, meta, rng), nil
}

func (s *stubProvider) GetLyrics(song *model.Song) (*model.Lyrics, error) {
	spec, ok := s.docs[song.ID]
	if !ok {
		return nil, nil
	}

	ly := model.NewLyrics(*song)
	orig := []model.LyricLine{{Start: 0, Text: "词"}}
	if spec.verbatim {
		orig[0].Words = []model.LyricWord{
			{Start: 0, End: 100, Text: "词"},
			{Start: 100, End: 200, Text: "句"},
		}
	}
	ly.SetData(model.LangOrig, orig)
	if spec.ts {
		ly.SetData(model.LangTrans, []model.LyricLine{{Start: 0, Text: "译"}})
	}
	if spec.roma {
		ly.SetData(model.LangRoma, []model.LyricLine{{Start: 0, Text: "ci"}})
	}
	return ly, nil
}

func newFetcher(t *testing.T, stubs ...*stubProvider) *Fetcher {
	t.Helper()
	manager := provider.NewManager()
	for _, s := range stubs {
		manager.Register(s)
	}
	workers := pool.New(4)
	t.Cleanup(workers.Shutdown)
	return New(manager, workers)
}

func song(src model.Source, id, title string, duration int) model.Song {
	return model.Song{Source: src, ID: id, Title: title, Duration: duration}
}

func TestFetchNotEnoughInfo(t *testing.T) {
	f := newFetcher(t, newStub("s1"))
	_, _, err := f.Fetch(model.Song{}, Options{})
	assert.ErrorIs(t, err, ErrNotEnoughInfo)
}

func TestFetchNotFound(t *testing.T) {
	f := newFetcher(t, newStub("s1"))
	_, _, err := f.Fetch(model.Song{Title: "随便"}, Options{})
	assert.ErrorIs(t, err, ErrLyricsNotFound)
}

func TestKeywordDerivation(t *testing.T) {
	t.Run("artist and title", func(t *testing.T) {
		stub := newStub("s1", song("s1", "1", "晴天", 0)).withDoc("1", docSpec{})
		f := newFetcher(t, stub)
		_, _, err := f.Fetch(model.Song{Title: "晴天", Artist: "周杰伦"}, Options{})
		require.NoError(t, err)
		assert.Equal(t, "周杰伦 晴天", stub.lastKeyword.Load())
	})

	t.Run("file name stem", func(t *testing.T) {
		stub := newStub("s1", song("s1", "1", "晴天", 0)).withDoc("1", docSpec{})
		f := newFetcher(t, stub)
		_, _, err := f.Fetch(model.Song{Path: "/music/晴天.mp3"}, Options{MinScore: 1})
		require.NoError(t, err)
		assert.Equal(t, "晴天", stub.lastKeyword.Load())
	})
}

func TestScoreCandidate(t *testing.T) {
	t.Run("low title score penalty", func(t *testing.T) {
		// 标题分 25，综合分减 35
		query := song("", "", "aaaa", 0)
		query.Artist = "周杰伦"
		cand := song("s1", "1", "zzza", 0)
		cand.Artist = "周杰伦"
		// titleScore=25, artistScore=100 → max(12.5+50, 0)=62.5 → 62.5-35=27.5
		assert.InDelta(t, 27.5, scoreCandidate(&query, &cand, true, ""), 1e-9)
	})

	t.Run("penalty floored at zero", func(t *testing.T) {
		query := song("", "", "aaaa", 0)
		cand := song("s1", "1", "zzzz", 0)
		// titleScore=0，没有其他分量，0-35 向下取 0
		assert.Equal(t, 0.0, scoreCandidate(&query, &cand, true, ""))
	})

	t.Run("album branch needs positive similarity", func(t *testing.T) {
		query := song("", "", "晴天", 0)
		query.Album = "aaaa"
		cand := song("s1", "1", "晴天", 0)
		cand.Album = "zzzz"
		// 专辑分为 0 时不走专辑分支，保持纯标题分而不是 0.8 倍
		assert.Equal(t, 100.0, scoreCandidate(&query, &cand, true, ""))
	})

	t.Run("album without artist", func(t *testing.T) {
		query := song("", "", "晴天", 0)
		query.Album = "叶惠美"
		cand := song("s1", "1", "晴天", 0)
		cand.Album = "叶惠美"
		// max(0.7*100+0.3*100, 0.8*100) = 100
		assert.Equal(t, 100.0, scoreCandidate(&query, &cand, true, ""))
	})

	t.Run("file name mode", func(t *testing.T) {
		query := model.Song{Path: "/m/周杰伦 - 晴天.flac"}
		cand := song("s1", "1", "晴天", 0)
		cand.Artist = "周杰伦"
		got := scoreCandidate(&query, &cand, false, query.Stem())
		// "周杰伦 - 晴天" 与 "歌手 - 标题" 拼接完全一致
		assert.Equal(t, 100.0, got)
	})
}

func TestDurationGate(t *testing.T) {
	query := model.Song{Title: "晴天", Duration: 200000}

	t.Run("excluded beyond 4000ms", func(t *testing.T) {
		stub := newStub("s1", song("s1", "1", "晴天", 205000)).withDoc("1", docSpec{})
		f := newFetcher(t, stub)
		_, _, err := f.Fetch(query, Options{})
		assert.ErrorIs(t, err, ErrLyricsNotFound)
	})

	t.Run("kept within 4000ms", func(t *testing.T) {
		stub := newStub("s1", song("s1", "1", "晴天", 203000)).withDoc("1", docSpec{})
		f := newFetcher(t, stub)
		result, _, err := f.Fetch(query, Options{})
		require.NoError(t, err)
		assert.Equal(t, "1", result.Info.ID)
	})

	t.Run("unknown candidate duration passes", func(t *testing.T) {
		stub := newStub("s1", song("s1", "1", "晴天", 0)).withDoc("1", docSpec{})
		f := newFetcher(t, stub)
		_, _, err := f.Fetch(query, Options{})
		assert.NoError(t, err)
	})
}

func TestToleranceBand(t *testing.T) {
	// 标题 10 个字符，编辑距离 0/1/2/3 给出 100/90/80/70 分
	title := strings.Repeat("a", 10)
	s100 := newStub("s100", song("s100", "1", "aaaaaaaaaa", 0)).withDoc("1", docSpec{})
	s90 := newStub("s90", song("s90", "2", "baaaaaaaaa", 0)).withDoc("2", docSpec{})
	s80 := newStub("s80", song("s80", "3", "bbaaaaaaaa", 0)).withDoc("3", docSpec{})
	s70 := newStub("s70", song("s70", "4", "bbbaaaaaaa", 0)).withDoc("4", docSpec{})

	f := newFetcher(t, s100, s90, s80, s70)

	// 80 和 70 分的源排在优先级最前，但它们落在容差带外，不能当选
	result, _, err := f.Fetch(model.Song{Title: title}, Options{
		Sources: []model.Source{"s80", "s70", "s90", "s100"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.Source("s90"), result.Info.Source)
}

func TestPriorityFallbackToTopRanked(t *testing.T) {
	// 候选挂着未注册的源标签，优先级列表里找不到，退回质量最高者
	foreign := song("zz", "1", "晴天", 0)
	stub := newStub("s1", foreign).withDoc("1", docSpec{verbatim: true})
	f := newFetcher(t, stub)

	result, _, err := f.Fetch(model.Song{Title: "晴天"}, Options{
		Sources: []model.Source{"s1"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.Source("zz"), result.Info.Source)
}

func TestPriorityBeatsQuality(t *testing.T) {
	// 参考场景：源1 70 分、逐字带翻译；源2 65 分、只有逐行。
	// 两者都在容差带内时，优先级高于质量。
	title := strings.Repeat("a", 20)
	cand1 := song("s1", "1", strings.Repeat("b", 6)+strings.Repeat("a", 14), 180000)
	cand2 := song("s2", "2", strings.Repeat("b", 7)+strings.Repeat("a", 13), 180000)
	s1 := newStub("s1", cand1).withDoc("1", docSpec{verbatim: true, ts: true})
	s2 := newStub("s2", cand2).withDoc("2", docSpec{})

	query := model.Song{Title: title, Duration: 180000}

	f := newFetcher(t, s1, s2)
	result, _, err := f.Fetch(query, Options{Sources: []model.Source{"s2", "s1"}})
	require.NoError(t, err)
	assert.Equal(t, model.Source("s2"), result.Info.Source)

	// 反过来源1 优先时质量高的照常胜出
	result, _, err = f.Fetch(query, Options{Sources: []model.Source{"s1", "s2"}})
	require.NoError(t, err)
	assert.Equal(t, model.Source("s1"), result.Info.Source)
}

func TestEachSourceQueried(t *testing.T) {
	// 阶段一的任务闭包必须各自捕获自己的源
	s1 := newStub("s1", song("s1", "1", "晴天", 0)).withDoc("1", docSpec{})
	s2 := newStub("s2", song("s2", "2", "晴天", 0)).withDoc("2", docSpec{})

	f := newFetcher(t, s1, s2)
	_, _, err := f.Fetch(model.Song{Title: "晴天"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "晴天", s1.lastKeyword.Load())
	assert.Equal(t, "晴天", s2.lastKeyword.Load())
}

func TestSearchErrorCollectedNotPropagated(t *testing.T) {
	bad := newStub("s1")
	bad.searchErr = errors.New("boom")
	good := newStub("s2", song("s2", "1", "晴天", 0)).withDoc("1", docSpec{})

	f := newFetcher(t, bad, good)
	result, _, err := f.Fetch(model.Song{Title: "晴天"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, model.Source("s2"), result.Info.Source)
}

func TestTimeoutDropsStragglers(t *testing.T) {
	slow := newStub("slow", song("slow", "1", "晴天", 0)).withDoc("1", docSpec{verbatim: true})
	slow.delay = 300 * time.Millisecond
	fast := newStub("fast", song("fast", "2", "晴天", 0)).withDoc("2", docSpec{})

	f := newFetcher(t, slow, fast)
	start := time.Now()
	result, _, err := f.Fetch(model.Song{Title: "晴天"}, Options{
		Timeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	// 慢源在超时后被放弃，即使它的文档质量更高
	assert.Equal(t, model.Source("fast"), result.Info.Source)
	assert.Less(t, time.Since(start), 300*time.Millisecond)
}

func TestMergedSearchResults(t *testing.T) {
	s1 := newStub("s1",
		song("s1", "1", "晴天", 0),
		song("s1", "2", "晴天 cover", 0),
	).withDoc("1", docSpec{})
	s2 := newStub("s2", song("s2", "3", "晴天 remix", 0))

	f := newFetcher(t, s1, s2)
	result, merged, err := f.Fetch(model.Song{Title: "晴天"}, Options{
		Sources:           []model.Source{"s1", "s2"},
		WithSearchResults: true,
	})
	require.NoError(t, err)
	require.NotNil(t, merged)

	// 胜出候选置顶，其余源的页拼在后面
	assert.Equal(t, result.Info.ID, merged.Songs[0].ID)
	assert.Equal(t, model.Source("s1"), merged.Songs[0].Source)
	assert.Len(t, merged.Metas, 2)
}

func TestQualityRank(t *testing.T) {
	ly := model.NewLyrics(model.Song{})
	ly.SetData(model.LangOrig, []model.LyricLine{{
		Start: 0,
		Words: []model.LyricWord{{Text: "a"}, {Text: "b"}},
	}})
	ly.SetData(model.LangTrans, []model.LyricLine{{Text: "译"}})
	ly.SetData(model.LangRoma, []model.LyricLine{{Text: "a"}})
	assert.Equal(t, 17, qualityRank(ly))

	plain := model.NewLyrics(model.Song{})
	plain.SetData(model.LangOrig, []model.LyricLine{{Text: "词"}})
	assert.Equal(t, 0, qualityRank(plain))
}
