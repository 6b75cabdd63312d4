// Package render 把推文正文拆成逐词的渲染指令：普通文本或内嵌视频。
package render

import (
	"regexp"
	"strings"
)

// Kind 渲染指令类型
type Kind string

const (
	KindText  Kind = "text"
	KindVideo Kind = "video"
)

// Instruction 一条渲染指令
type Instruction struct {
	Kind    Kind   `json:"kind"`
	Text    string `json:"text,omitempty"`
	VideoID string `json:"videoId,omitempty"`
}

// 支持 watch?v= / youtu.be/ / embed/ / shorts/ / v/ 几种形态，查询参数忽略
var videoPattern = regexp.MustCompile(
	`^(?:https?://)?(?:(?:www|m)\.)?` +
		`(?:youtube\.com/(?:watch\?(?:[^\s#]*&)?v=|embed/|shorts/|v/)|youtu\.be/)` +
		`([A-Za-z0-9_-]+)`,
)

// VideoID 返回 token 中的视频 id；不是视频链接或取不到 id 时 ok 为 false
func VideoID(token string) (id string, ok bool) {
	m := videoPattern.FindStringSubmatch(token)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// EmbedURL 视频的内嵌播放地址
func EmbedURL(id string) string { return "https://www.youtube.com/embed/" + id }

// Render 按空白切词，逐词判定。同样的输入总是得到同样的输出。
func Render(content string) []Instruction {
	tokens := strings.Fields(content)
	out := make([]Instruction, 0, len(tokens))
	for _, tok := range tokens {
		if id, ok := VideoID(tok); ok {
			out = append(out, Instruction{Kind: KindVideo, VideoID: id})
			continue
		}
		out = append(out, Instruction{Kind: KindText, Text: tok})
	}
	return out
}

// Join 把指令还原成单空格分隔的文本，视频替换为内嵌地址
func Join(ins []Instruction) string {
	parts := make([]string, len(ins))
	for i, in := range ins {
		if in.Kind == KindVideo {
			parts[i] = EmbedURL(in.VideoID)
		} else {
			parts[i] = in.Text
		}
	}
	return strings.Join(parts, " ")
}
