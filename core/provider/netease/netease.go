// Package netease 实现网易云音乐歌词源，走 NeteaseCloudMusicApi 接口。
package netease

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"LrcFM/core/lyrics"
	"LrcFM/logger"
	"LrcFM/model"
)

const pageSize = 30

// Netease 网易云歌词源适配器
type Netease struct {
	baseURL    string
	httpClient *http.Client
}

// New 创建网易云适配器
func New(baseURL string, timeout time.Duration) *Netease {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Netease{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Source 返回源标识
func (n *Netease) Source() model.Source {
	return model.SourceNetease
}

// Search 搜索歌曲
func (n *Netease) Search(keyword string, searchType model.SearchType, page int) (*model.SearchResult, error) {
	if searchType != model.SearchTypeSong {
		return nil, nil
	}
	if page < 1 {
		page = 1
	}

	reqURL := fmt.Sprintf("%s/cloudsearch?keywords=%s&limit=%d&offset=%d",
		n.baseURL, url.QueryEscape(keyword), pageSize, (page-1)*pageSize)

	var result struct {
		Result struct {
			Songs []struct {
				ID   int64  `json:"id"`
				Name string `json:"name"`
				Ar   []struct {
					Name string `json:"name"`
				} `json:"ar"`
				Al struct {
					Name string `json:"name"`
				} `json:"al"`
				Dt int `json:"dt"` // 毫秒
			} `json:"songs"`
			SongCount int `json:"songCount"`
		} `json:"result"`
		Code int `json:"code"`
	}
	if !n.getJSON(reqURL, &result) || result.Code != 200 {
		return nil, nil
	}

	songs := make([]model.Song, 0, len(result.Result.Songs))
	for _, item := range result.Result.Songs {
		artist := ""
		for i, ar := range item.Ar {
			if i > 0 {
				artist += "/"
			}
			artist += ar.Name
		}
		songs = append(songs, model.Song{
			Source:   model.SourceNetease,
			ID:       strconv.FormatInt(item.ID, 10),
			Title:    item.Name,
			Artist:   artist,
			Album:    item.Al.Name,
			Duration: item.Dt,
		})
	}

	meta := model.SearchMeta{
		Source:     model.SourceNetease,
		Keyword:    keyword,
		SearchType: searchType,
		Page:       page,
	}
	start := (page - 1) * pageSize
	end := start
	if len(songs) > 0 {
		end = start + len(songs) - 1
	}
	rng := model.Range{Start: start, End: end, Total: result.Result.SongCount}
	return model.NewSearchResult(songs, meta, rng), nil
}

// GetLyrics 获取歌词，接口同时带回翻译和罗马音轨道
func (n *Netease) GetLyrics(song *model.Song) (*model.Lyrics, error) {
	if song.ID == "" {
		return nil, nil
	}

	var result struct {
		Lrc struct {
			Lyric string `json:"lyric"`
		} `json:"lrc"`
		Tlyric struct {
			Lyric string `json:"lyric"`
		} `json:"tlyric"`
		Romalrc struct {
			Lyric string `json:"lyric"`
		} `json:"romalrc"`
		Code int `json:"code"`
	}
	if !n.getJSON(fmt.Sprintf("%s/lyric?id=%s", n.baseURL, song.ID), &result) || result.Code != 200 {
		return nil, nil
	}
	if result.Lrc.Lyric == "" {
		return nil, nil
	}

	ly := model.NewLyrics(*song)
	ly.Tags = lyrics.ParseTags(result.Lrc.Lyric)
	ly.SetData(model.LangOrig, lyrics.ParseLines(result.Lrc.Lyric))
	ly.SetData(model.LangTrans, lyrics.ParseLines(result.Tlyric.Lyric))
	ly.SetData(model.LangRoma, lyrics.ParseLines(result.Romalrc.Lyric))
	if !ly.Has(model.LangOrig) {
		return nil, nil
	}
	return ly, nil
}

// getJSON 请求并解析 JSON，日常故障只记日志并返回 false
func (n *Netease) getJSON(reqURL string, out interface{}) bool {
	resp, err := n.httpClient.Get(reqURL)
	if err != nil {
		logger.Warn("网易云请求失败", logger.ErrorField(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("网易云返回异常状态码", logger.Int("status", resp.StatusCode))
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Warn("网易云响应解析失败", logger.ErrorField(err))
		return false
	}
	return true
}
