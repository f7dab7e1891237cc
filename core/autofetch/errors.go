package autofetch

import "errors"

var (
	// ErrNotEnoughInfo 查询既没有标题也没有可用的文件名
	ErrNotEnoughInfo = errors.New("没有足够的信息用于搜索")

	// ErrLyricsNotFound 过滤后没有任何歌词存活。
	// 调用方通常换一个查询重试，而不是当成硬错误。
	ErrLyricsNotFound = errors.New("没有找到符合要求的歌词")
)
