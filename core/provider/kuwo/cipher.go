package kuwo

import (
	"encoding/base64"
	"fmt"
)

// 酷我歌词接口使用的固定异或密钥
var cipherKey = []byte("yeelion")

// xorCipher 对 buf 做循环异或，加密解密是同一个变换。
// 密钥下标取 i mod len(key)，不在中途重置，保证两次应用后还原。
func xorCipher(buf []byte) []byte {
	out := make([]byte, len(buf))
	for i, b := range buf {
		out[i] = b ^ cipherKey[i%len(cipherKey)]
	}
	return out
}

// buildParams 构造歌词请求参数串并加密编码。
// lyricx 为 true 时请求逐字歌词。
func buildParams(musicID string, lyricx bool) string {
	params := fmt.Sprintf("user=12345,web,web,web&requester=localhost&req=1&rid=MUSIC_%s", musicID)
	if lyricx {
		params += "&lrcx=1"
	}
	return base64.StdEncoding.EncodeToString(xorCipher([]byte(params)))
}
