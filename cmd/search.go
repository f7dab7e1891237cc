package cmd

import (
	"fmt"

	"LrcFM/core/pool"
	"LrcFM/model"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <关键词>",
	Short: "并发搜索所有歌词源",
	Long:  `用同一个关键词并发搜索所有配置的源，交错合并后输出，方便挑选候选`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		keyword := args[0]
		manager := newManager(cfg)
		workers := pool.New(cfg.Workers)
		defer workers.Shutdown()

		type outcome struct {
			source model.Source
			result *model.SearchResult
		}
		outcomes := make(chan outcome, len(cfg.Sources))
		submitted := 0
		for _, src := range cfg.Sources {
			p, ok := manager.Get(src)
			if !ok {
				continue
			}
			p, src := p, src
			workers.Submit(func() {
				res, _ := p.Search(keyword, model.SearchTypeSong, 1)
				outcomes <- outcome{src, res}
			})
			submitted++
		}

		bySource := make(map[model.Source][]model.Song)
		for i := 0; i < submitted; i++ {
			o := <-outcomes
			if o.result != nil {
				bySource[o.source] = o.result.Songs
			}
		}

		// 各源结果交错合并，列表更均衡
		maxLen := 0
		for _, songs := range bySource {
			if len(songs) > maxLen {
				maxLen = len(songs)
			}
		}
		for i := 0; i < maxLen; i++ {
			for _, src := range cfg.Sources {
				songs := bySource[src]
				if i < len(songs) {
					song := songs[i]
					fmt.Printf("%s - %s - %s [%s] (%s)\n",
						song.Title, song.Artist, song.Album,
						formatDuration(song.Duration), song.Source)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
