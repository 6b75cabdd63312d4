package client

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/d60-Lab/tweetfeed/internal/model"
	"github.com/d60-Lab/tweetfeed/internal/render"
	"github.com/d60-Lab/tweetfeed/internal/session"
)

type palette struct {
	author *color.Color
	body   *color.Color
	video  *color.Color
	liked  *color.Color
	muted  *color.Color
}

func paletteFor(t session.Theme) palette {
	if t == session.ThemeDark {
		return palette{
			author: color.New(color.Bold, color.FgHiWhite),
			body:   color.New(color.FgWhite),
			video:  color.New(color.FgHiMagenta),
			liked:  color.New(color.FgHiCyan),
			muted:  color.New(color.FgHiBlack),
		}
	}
	return palette{
		author: color.New(color.Bold, color.FgBlack),
		body:   color.New(color.FgBlack),
		video:  color.New(color.FgRed),
		liked:  color.New(color.FgBlue),
		muted:  color.New(color.FgHiBlack),
	}
}

// View 逐条打印：作者、渲染后的正文、点赞数、本地时间
type View struct {
	out io.Writer
	p   palette
	loc *time.Location
}

func NewView(out io.Writer, theme session.Theme) *View {
	return &View{out: out, p: paletteFor(theme), loc: time.Local}
}

// Feed 打印全部帖子，me 已赞的帖子会高亮
func (v *View) Feed(posts []model.Post, me string) {
	if len(posts) == 0 {
		fmt.Fprintln(v.out, v.p.muted.Sprint("No tweets yet."))
		return
	}
	for i := range posts {
		v.Post(&posts[i], me)
		fmt.Fprintln(v.out)
	}
}

func (v *View) Post(p *model.Post, me string) {
	fmt.Fprintf(v.out, "%s %s\n", v.p.muted.Sprintf("#%d", p.ID), v.p.author.Sprint(p.Username))

	var line []string
	flush := func() {
		if len(line) > 0 {
			fmt.Fprintln(v.out, v.p.body.Sprint(strings.Join(line, " ")))
			line = line[:0]
		}
	}
	for _, in := range render.Render(p.Content) {
		if in.Kind == render.KindVideo {
			flush()
			fmt.Fprintln(v.out, v.p.video.Sprintf("▶ video %s  %s", in.VideoID, render.EmbedURL(in.VideoID)))
			continue
		}
		line = append(line, in.Text)
	}
	flush()

	likes := fmt.Sprintf("♥ %d", p.LikeCount())
	if p.LikedBy(me) {
		likes = v.p.liked.Sprint(likes + " (you)")
	} else {
		likes = v.p.muted.Sprint(likes)
	}
	fmt.Fprintf(v.out, "%s  %s\n", likes, v.p.muted.Sprint(p.CreatedAt.In(v.loc).Format("2006-01-02 15:04:05")))
}
