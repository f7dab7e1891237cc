package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"LrcFM/core/autofetch"
	"LrcFM/core/lyrics"
	"LrcFM/core/pool"
	"LrcFM/model"

	"github.com/spf13/cobra"
)

var (
	fetchTitle      string
	fetchArtist     string
	fetchAlbum      string
	fetchDuration   int
	fetchKeyword    string
	fetchSources    []string
	fetchMinScore   float64
	fetchTimeout    int
	fetchShowResult bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "自动匹配并输出歌词",
	Long: `按歌曲信息自动匹配最合适的歌词，以 LRC 格式输出到标准输出。
提供 --title（可选配 --artist）或者 --keyword（文件名）两种查询方式。`,
	Run: func(cmd *cobra.Command, args []string) {
		query := model.Song{
			Title:    fetchTitle,
			Artist:   fetchArtist,
			Album:    fetchAlbum,
			Duration: fetchDuration,
			Path:     fetchKeyword,
		}

		sources := cfg.Sources
		if len(fetchSources) > 0 {
			sources = sources[:0:0]
			for _, s := range fetchSources {
				if src, ok := model.ParseSource(s); ok {
					sources = append(sources, src)
				}
			}
		}

		manager := newManager(cfg)
		workers := pool.New(cfg.Workers)
		defer workers.Shutdown()

		fetcher := autofetch.New(manager, workers)
		opts := autofetch.Options{
			MinScore:          fetchMinScore,
			Sources:           sources,
			Timeout:           time.Duration(fetchTimeout) * time.Second,
			WithSearchResults: fetchShowResult,
		}

		result, merged, err := fetcher.Fetch(query, opts)
		if err != nil {
			if errors.Is(err, autofetch.ErrNotEnoughInfo) {
				fmt.Fprintln(os.Stderr, "必须提供 --title 或 --keyword")
			} else if errors.Is(err, autofetch.ErrLyricsNotFound) {
				fmt.Fprintln(os.Stderr, "未找到匹配的歌词")
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
			os.Exit(1)
		}

		langs := []string{model.LangOrig}
		if result.Has(model.LangTrans) {
			langs = append(langs, model.LangTrans)
		}
		fmt.Println(lyrics.Render(result, langs))

		if fetchShowResult && merged != nil {
			fmt.Fprintln(os.Stderr)
			for _, song := range merged.Songs {
				fmt.Fprintf(os.Stderr, "%s - %s - %s [%s] (%s)\n",
					song.Title, song.Artist, song.Album,
					formatDuration(song.Duration), song.Source)
			}
		}
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchTitle, "title", "", "歌曲标题")
	fetchCmd.Flags().StringVar(&fetchArtist, "artist", "", "歌手名，多个用 / 分隔")
	fetchCmd.Flags().StringVar(&fetchAlbum, "album", "", "专辑名")
	fetchCmd.Flags().IntVar(&fetchDuration, "duration", 0, "歌曲时长，毫秒")
	fetchCmd.Flags().StringVar(&fetchKeyword, "keyword", "", "文件名关键词，没有标题时使用")
	fetchCmd.Flags().StringSliceVar(&fetchSources, "sources", nil, "源优先级列表，如 kw,ne")
	fetchCmd.Flags().Float64Var(&fetchMinScore, "min-score", 0, "候选分数门槛，默认 55")
	fetchCmd.Flags().IntVar(&fetchTimeout, "timeout", 0, "搜索超时秒数，默认 30")
	fetchCmd.Flags().BoolVar(&fetchShowResult, "search-results", false, "同时输出合并后的搜索结果")
	rootCmd.AddCommand(fetchCmd)
}
