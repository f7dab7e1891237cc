// Package kuwo 实现酷我音乐歌词源。
// 歌词接口使用私有格式：请求参数经循环异或加密，响应是 zlib 压缩的
// GB18030 文本，逐字模式下还套了一层 base64 和同一密钥的异或。
package kuwo

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"LrcFM/core/lyrics"
	"LrcFM/logger"
	"LrcFM/model"
)

const (
	searchURL = "https://search.kuwo.cn/r.s"
	lyricURL  = "http://newlyric.kuwo.cn/newlyric.lrc"
	pageSize  = 30
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/134.0.0.0 Safari/537.36"
)

// Kuwo 酷我歌词源适配器
type Kuwo struct {
	client *http.Client
}

// New 创建酷我适配器
func New(timeout time.Duration) *Kuwo {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Kuwo{
		client: &http.Client{Timeout: timeout},
	}
}

// Source 返回源标识
func (k *Kuwo) Source() model.Source {
	return model.SourceKuwo
}

// Search 搜索歌曲，酷我目前只支持歌曲搜索
func (k *Kuwo) Search(keyword string, searchType model.SearchType, page int) (*model.SearchResult, error) {
	if searchType != model.SearchTypeSong {
		return nil, nil
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("all", keyword)
	params.Set("ft", "music")
	params.Set("rformat", "json")
	params.Set("encoding", "utf8")
	params.Set("vipver", "MUSIC_9.4.0.0_W1")
	params.Set("pcjson", "1")
	params.Set("rn", strconv.Itoa(pageSize))
	params.Set("pn", strconv.Itoa(page-1))

	body := k.get(searchURL + "?" + params.Encode())
	if body == nil {
		return nil, nil
	}
	return parseSearchBody(body, keyword, searchType, page), nil
}

// parseSearchBody 解析搜索接口的 JSON 响应，解析失败返回 nil
func parseSearchBody(body []byte, keyword string, searchType model.SearchType, page int) *model.SearchResult {
	var resp struct {
		AbsList []struct {
			SongName string          `json:"SONGNAME"`
			Artist   string          `json:"ARTIST"`
			Album    string          `json:"ALBUM"`
			Duration json.RawMessage `json:"DURATION"` // 秒，时而字符串时而数字
			TargetID string          `json:"DC_TARGETID"`
		} `json:"abslist"`
		Total json.RawMessage `json:"TOTAL"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.Warn("酷我搜索响应解析失败",
			logger.String("keyword", keyword),
			logger.ErrorField(err))
		return nil
	}

	songs := make([]model.Song, 0, len(resp.AbsList))
	for _, item := range resp.AbsList {
		songs = append(songs, model.Song{
			Source:   model.SourceKuwo,
			ID:       item.TargetID,
			Title:    item.SongName,
			Artist:   item.Artist,
			Album:    item.Album,
			Duration: looseInt(item.Duration) * 1000,
		})
	}

	meta := model.SearchMeta{
		Source:     model.SourceKuwo,
		Keyword:    keyword,
		SearchType: searchType,
		Page:       page,
	}
	start := (page - 1) * pageSize
	end := start
	if len(songs) > 0 {
		end = start + len(songs) - 1
	}
	rng := model.Range{Start: start, End: end, Total: looseInt(resp.Total)}
	return model.NewSearchResult(songs, meta, rng)
}

// GetLyrics 获取逐字歌词
func (k *Kuwo) GetLyrics(song *model.Song) (*model.Lyrics, error) {
	if song.ID == "" {
		return nil, nil
	}
	if _, err := strconv.ParseInt(song.ID, 10, 64); err != nil {
		return nil, nil
	}

	body := k.get(lyricURL + "?" + buildParams(song.ID, true))
	if body == nil {
		return nil, nil
	}

	raw := decodeLyrics(body, true)
	if raw == "" {
		logger.Debug("酷我歌词载荷解码失败", logger.String("id", song.ID))
		return nil, nil
	}

	converted := convertLyrics(raw)
	if converted == "" {
		return nil, nil
	}

	ly := lyrics.Parse(converted, *song)
	if !ly.Has(model.LangOrig) {
		return nil, nil
	}
	return ly, nil
}

// get 发起请求并读取响应体，日常故障只记日志并返回 nil
func (k *Kuwo) get(rawURL string) []byte {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		logger.Warn("酷我请求构造失败", logger.ErrorField(err))
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := k.client.Do(req)
	if err != nil {
		logger.Warn("酷我请求失败", logger.ErrorField(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("酷我返回异常状态码", logger.Int("status", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("酷我响应读取失败", logger.ErrorField(err))
		return nil
	}
	return body
}

// looseInt 酷我接口的数字字段时而是字符串时而是数字
func looseInt(raw json.RawMessage) int {
	s := string(raw)
	s = strings.Trim(s, `"`)
	v, _ := strconv.Atoi(s)
	return v
}
