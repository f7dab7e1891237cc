package cmd

import (
	"fmt"
	"os"
	"time"

	"LrcFM/config"
	"LrcFM/core/provider"
	"LrcFM/core/provider/kuwo"
	"LrcFM/core/provider/netease"
	"LrcFM/logger"
	"LrcFM/model"

	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lrcfm",
	Short: "LrcFM 歌词自动匹配工具",
	Long:  `LrcFM 并发查询多个歌词源，为歌曲匹配最合适的歌词并输出 LRC`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger.InitLogger(logger.Config{
			Level:      logger.LogLevel(cfg.LogLevel),
			OutputPath: cfg.LogPath,
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		})
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newManager 按配置组装全部歌词源
func newManager(cfg *config.Config) *provider.Manager {
	manager := provider.NewManager()
	for _, src := range cfg.Sources {
		switch src {
		case model.SourceKuwo:
			manager.Register(kuwo.New(cfg.HTTPTimeout))
		case model.SourceNetease:
			manager.Register(netease.New(cfg.NeteaseAPIURL, cfg.HTTPTimeout))
		}
	}
	return manager
}

// formatDuration 毫秒转 mm:ss 展示
func formatDuration(ms int) string {
	if ms <= 0 {
		return "--:--"
	}
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
