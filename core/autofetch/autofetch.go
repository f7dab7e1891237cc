// Package autofetch 实现歌词自动匹配：并发搜索全部源，给候选打分过滤，
// 对高分候选并发拉取歌词，再按源优先级和质量规则选出最终结果。
package autofetch

import (
	"math"
	"sort"
	"strings"
	"time"

	"LrcFM/core/match"
	"LrcFM/core/pool"
	"LrcFM/core/provider"
	"LrcFM/logger"
	"LrcFM/model"

	"github.com/google/uuid"
)

const (
	defaultMinScore = 55
	defaultTimeout  = 30 * time.Second

	// 这几个阈值是参考行为里调出来的经验值，保持兼容不要改动
	maxDurationDiffMs  = 4000 // 时长差超过这个值直接淘汰
	topPerSource       = 2    // 每个源最多取前几名去拉歌词
	scoreToleranceBand = 15   // 距最高分的容差带
	lowTitleThreshold  = 30   // 标题分低于该值触发罚分
	lowTitlePenalty    = 35
)

// Options 一次自动匹配的参数
type Options struct {
	MinScore          float64        // 候选分数门槛，0 取默认 55
	Sources           []model.Source // 源优先级顺序，空则用注册顺序
	Timeout           time.Duration  // 搜索阶段整体超时
	WithSearchResults bool           // 是否同时返回合并的搜索结果页
}

// Fetcher 歌词自动匹配器。
// 工作池由调用方持有，Fetcher 本身无共享可变状态，可并发调用。
type Fetcher struct {
	manager *provider.Manager
	pool    *pool.Pool
}

// New 创建匹配器
func New(manager *provider.Manager, p *pool.Pool) *Fetcher {
	return &Fetcher{manager: manager, pool: p}
}

// candidate 打分后进入歌词拉取阶段的候选
type candidate struct {
	score float64
	song  model.Song
	page  *model.SearchResult // 该候选置顶后的原始结果页
}

// Fetch 自动匹配歌词。
// 查询里既没有标题也没有文件名时返回 ErrNotEnoughInfo；
// 没有任何歌词通过过滤时返回 ErrLyricsNotFound。
func (f *Fetcher) Fetch(query model.Song, opts Options) (*model.Lyrics, *model.SearchResult, error) {
	if opts.MinScore <= 0 {
		opts.MinScore = defaultMinScore
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	sources := opts.Sources
	if len(sources) == 0 {
		sources = f.manager.Sources()
	}

	// 关键词推导：优先 "歌手 标题"，其次标题，最后文件名
	structured := strings.TrimSpace(query.Title) != ""
	stem := query.Stem()
	var keyword string
	switch {
	case structured:
		keyword = query.ArtistTitle()
	case stem != "":
		keyword = stem
	default:
		return nil, nil, ErrNotEnoughInfo
	}

	traceID := uuid.NewString()
	logger.Info("开始自动匹配歌词",
		logger.String("traceId", traceID),
		logger.String("keyword", keyword),
		logger.Int("sources", len(sources)))

	pages, errs := f.searchAll(sources, keyword, opts.Timeout, traceID)

	// 打分过滤，每个源保留前几名
	var picked []candidate
	for _, page := range pages {
		var scored []candidate
		for _, cand := range page.Songs {
			// 时长闸门：两侧都已知才比较
			if query.Duration > 0 && cand.Duration > 0 &&
				abs(query.Duration-cand.Duration) > maxDurationDiffMs {
				continue
			}
			score := scoreCandidate(&query, &cand, structured, stem)
			if score > opts.MinScore {
				scored = append(scored, candidate{score: score, song: cand})
			}
		}
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].score > scored[j].score
		})
		for i := range scored {
			if i >= topPerSource {
				break
			}
			scored[i].page = promote(page, scored[i].song)
			picked = append(picked, scored[i])
		}
	}

	logger.Debug("候选过滤完成",
		logger.String("traceId", traceID),
		logger.Int("pages", len(pages)),
		logger.Int("picked", len(picked)))

	docs, fetchErrs := f.fetchAll(picked)
	errs = append(errs, fetchErrs...)

	var withDocs []int
	for i := range picked {
		if docs[i] != nil {
			withDocs = append(withDocs, i)
		}
	}
	if len(withDocs) == 0 {
		if len(errs) > 0 {
			logger.Error("自动匹配过程中出现错误",
				logger.String("traceId", traceID),
				logger.Any("errors", errs))
		}
		return nil, nil, ErrLyricsNotFound
	}

	// 容差带：只保留距最高分 15 分以内的候选
	highest := 0.0
	for _, idx := range withDocs {
		if picked[idx].score > highest {
			highest = picked[idx].score
		}
	}
	var survivors []int
	for _, idx := range withDocs {
		if highest-picked[idx].score <= scoreToleranceBand {
			survivors = append(survivors, idx)
		}
	}

	// 质量排序：逐字原文 +10，翻译 +5，罗马音 +2
	sort.SliceStable(survivors, func(i, j int) bool {
		return qualityRank(docs[survivors[i]]) > qualityRank(docs[survivors[j]])
	})

	// 按调用方给的源优先级选第一个命中的，否则退回质量最高者
	winner := -1
priority:
	for _, src := range sources {
		for _, idx := range survivors {
			if picked[idx].song.Source == src {
				winner = idx
				break priority
			}
		}
	}
	if winner < 0 {
		winner = survivors[0]
	}

	result := docs[winner]
	logger.Info("歌词匹配完成",
		logger.String("traceId", traceID),
		logger.String("source", string(result.Info.Source)),
		logger.String("song", result.Info.Display()),
		logger.Float64("score", picked[winner].score))

	if !opts.WithSearchResults {
		return result, nil, nil
	}

	// 合并结果页：胜出候选所在页在前，其余源的页拼在后面
	merged := picked[winner].page
	for _, page := range pages {
		if pageSource(page) != picked[winner].song.Source {
			merged = merged.Concat(page)
		}
	}
	return result, merged, nil
}

// searchAll 阶段一：每个源一个搜索任务，整体超时后放弃未返回的源。
// 超时后晚到的结果只会落进带缓冲的通道里被丢弃，不会泄漏进后续阶段。
func (f *Fetcher) searchAll(sources []model.Source, keyword string, timeout time.Duration, traceID string) ([]*model.SearchResult, []error) {
	type outcome struct {
		result *model.SearchResult
		err    error
	}

	outcomes := make(chan outcome, len(sources))
	submitted := 0
	for _, src := range sources {
		p, ok := f.manager.Get(src)
		if !ok {
			logger.Warn("未注册的歌词源", logger.String("source", string(src)))
			continue
		}
		f.pool.Submit(func() {
			res, err := p.Search(keyword, model.SearchTypeSong, 1)
			outcomes <- outcome{res, err}
		})
		submitted++
	}

	var pages []*model.SearchResult
	var errs []error
	deadline := time.After(timeout)
	for i := 0; i < submitted; i++ {
		select {
		case o := <-outcomes:
			if o.err != nil {
				errs = append(errs, o.err)
				continue
			}
			if o.result != nil {
				pages = append(pages, o.result)
			}
		case <-deadline:
			logger.Warn("搜索超时，放弃未返回的源",
				logger.String("traceId", traceID),
				logger.Int("pending", submitted-i))
			return pages, errs
		}
	}
	return pages, errs
}

// fetchAll 阶段二：每个候选一个歌词拉取任务，等全部完成。
// 单个失败不影响其他任务，返回与 picked 对齐的文档切片。
func (f *Fetcher) fetchAll(picked []candidate) ([]*model.Lyrics, []error) {
	type outcome struct {
		idx    int
		lyrics *model.Lyrics
		err    error
	}

	docs := make([]*model.Lyrics, len(picked))
	if len(picked) == 0 {
		return docs, nil
	}

	outcomes := make(chan outcome, len(picked))
	submitted := 0
	for i, c := range picked {
		// 歌词由返回该候选的源去拉取，候选本身可能带别的源标签
		src := pageSource(c.page)
		if src == "" {
			src = c.song.Source
		}
		p, ok := f.manager.Get(src)
		if !ok {
			continue
		}
		idx, song := i, c.song
		f.pool.Submit(func() {
			ly, err := p.GetLyrics(&song)
			outcomes <- outcome{idx, ly, err}
		})
		submitted++
	}

	var errs []error
	for i := 0; i < submitted; i++ {
		o := <-outcomes
		if o.err != nil {
			errs = append(errs, o.err)
			continue
		}
		docs[o.idx] = o.lyrics
	}
	return docs, errs
}

// scoreCandidate 计算候选和查询的匹配分，0~100
func scoreCandidate(query, cand *model.Song, structured bool, stem string) float64 {
	if !structured {
		// 文件名模式：文件名分别比标题和 "歌手 - 标题"
		return math.Max(
			match.Similarity(stem, cand.Title),
			match.Similarity(stem, cand.Artist+" - "+cand.Title))
	}

	titleScore := match.TitleScore(query.Title, cand.Title)
	score := titleScore
	hasArtist := query.Artist != "" && cand.Artist != ""
	hasAlbum := query.Album != "" && cand.Album != ""

	var artistScore, albumScore float64
	if hasArtist {
		artistScore = match.ArtistScore(query.Artist, cand.Artist)
	}
	if hasAlbum {
		albumScore = match.Similarity(query.Album, cand.Album)
	}

	if hasArtist {
		alt := 0.0
		if hasAlbum {
			alt = titleScore*0.5 + artistScore*0.35 + albumScore*0.15
		}
		score = math.Max(titleScore*0.5+artistScore*0.5, alt)
	} else if albumScore > 0 {
		// 专辑完全不相似时该分支不生效，保持纯标题分
		score = math.Max(titleScore*0.7+albumScore*0.3, titleScore*0.8)
	}

	if titleScore < lowTitleThreshold {
		score = math.Max(0, score-lowTitlePenalty)
	}
	return score
}

// qualityRank 歌词文档质量分
func qualityRank(ly *model.Lyrics) int {
	rank := 0
	if ly.Types[model.LangOrig] == model.LyricsTypeVerbatim {
		rank += 10
	}
	if ly.Has(model.LangTrans) {
		rank += 5
	}
	if ly.Has(model.LangRoma) {
		rank += 2
	}
	return rank
}

// promote 返回把 song 置顶后的结果页副本
func promote(page *model.SearchResult, song model.Song) *model.SearchResult {
	songs := make([]model.Song, 0, len(page.Songs))
	songs = append(songs, song)
	for _, s := range page.Songs {
		if s.Key() != song.Key() {
			songs = append(songs, s)
		}
	}
	return &model.SearchResult{Songs: songs, Metas: page.Metas, Ranges: page.Ranges}
}

func pageSource(page *model.SearchResult) model.Source {
	if len(page.Metas) > 0 {
		return page.Metas[0].Source
	}
	return ""
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
