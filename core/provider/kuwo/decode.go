package kuwo

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"io"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
)

var (
	contentMarker = []byte("tp=content")
	headerEnd     = []byte("\r\n\r\n")
)

// decodeLyrics 解析歌词接口返回的原始字节。
// 帧格式：tp=content 开头的头部，CRLFCRLF 之后是 zlib 压缩体。
// 逐字模式下压缩体是 base64 文本，解码后还要再过一遍异或密钥。
// 任何一步失败都返回空串，表示没有歌词。
func decodeLyrics(buf []byte, lyricx bool) string {
	if !bytes.HasPrefix(buf, contentMarker) {
		return ""
	}
	idx := bytes.Index(buf, headerEnd)
	if idx < 0 {
		return ""
	}

	zr, err := zlib.NewReader(bytes.NewReader(buf[idx+len(headerEnd):]))
	if err != nil {
		return ""
	}
	defer zr.Close()
	inflated, err := io.ReadAll(zr)
	if err != nil {
		return ""
	}

	if !lyricx {
		return decodeGB18030(inflated)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(inflated)))
	if err != nil {
		return ""
	}
	return decodeGB18030(xorCipher(raw))
}

// decodeGB18030 尽力解码，非法字节替换为占位符而不是报错
func decodeGB18030(b []byte) string {
	decoded, err := simplifiedchinese.GB18030.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}
