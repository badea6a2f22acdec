package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":             "hello-world",
		"Héllo, Wörld! 2024":      "hello-world-2024",
		"  --Go   Tips--  ":       "go-tips",
		"Crème brûlée & café":     "creme-brulee-cafe",
		"여행 이야기":                  "",
		"already-a-slug":          "already-a-slug",
		"Tabs\tand\nnewlines":     "tabs-and-newlines",
		"UPPER case 123 numbers!": "upper-case-123-numbers",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"Travel", "Food", "Deep Dive"}, ParseTags(" Travel, Food ,,travel,  Deep   Dive ,"))
	assert.Nil(t, ParseTags(" , ,"))
}

func TestValidateRequiredFields(t *testing.T) {
	err := Form{Content: "<p> </p>"}.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{MsgTitleRequired, MsgContentRequired, MsgTagsRequired}, verr.Messages)

	assert.NoError(t, Form{Title: "T", Content: "<p>body</p>", Tags: "go"}.Validate())
}

func TestBuildDerivesPermalinkAndSummary(t *testing.T) {
	body := "<h1>Intro</h1><p>" + strings.Repeat("word ", 100) + "</p><script>alert(1)</script>"
	req, err := Form{Title: "  My First Post ", Content: body, Tags: "go, web"}.Build()
	require.NoError(t, err)

	assert.Equal(t, "My First Post", req.Title)
	assert.Equal(t, "my-first-post", req.Permalink)
	assert.Equal(t, []string{"go", "web"}, req.Tags)
	assert.True(t, strings.HasPrefix(req.Summary, "Intro word word"))
	assert.LessOrEqual(t, len([]rune(req.Summary)), SummaryRunes)
	assert.NotContains(t, req.Summary, "alert")
	assert.NotContains(t, req.Content, "<script")
}

func TestBuildKeepsGivenSummaryAndPermalink(t *testing.T) {
	req, err := Form{
		Title:     "Title",
		Permalink: "Custom Link",
		Summary:   "  short  ",
		Content:   "<p>text</p>",
		Tags:      "x",
	}.Build()
	require.NoError(t, err)
	assert.Equal(t, "custom-link", req.Permalink)
	assert.Equal(t, "short", req.Summary)
}

func TestBuildFallsBackForNonLatinTitle(t *testing.T) {
	req, err := Form{Title: "여행 이야기", Content: "<p>본문</p>", Tags: "여행"}.Build()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(req.Permalink, "post-"))
	assert.Len(t, req.Permalink, len("post-")+8)
}

func TestBuildRejectsInvalidForm(t *testing.T) {
	_, err := Form{Title: "x"}.Build()
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestIsUpdate(t *testing.T) {
	assert.False(t, Form{}.IsUpdate())
	assert.True(t, Form{ID: "64f"}.IsUpdate())
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hello & welcome to Go", PlainText("<p>Hello &amp; <b>welcome</b></p>\n<p>to   Go</p><style>p{}</style>"))
}

func TestSanitize(t *testing.T) {
	in := `<p onclick="x()">Hi <a href="javascript:alert(1)">there</a> <a href="https://go.dev">go</a></p><script>bad()</script><!-- note --><img src="a.png" onerror="y()">`
	out := Sanitize(in)

	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "onerror")
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "note")
	assert.Contains(t, out, `href="https://go.dev"`)
	assert.Contains(t, out, `<img src="a.png"`)
	assert.Contains(t, out, "Hi ")
}

func TestSanitizeDropsScriptVectors(t *testing.T) {
	cases := map[string]struct {
		in     string
		banned []string
		keeps  string
	}{
		"form action": {
			in:     `<form action="javascript:alert(1)"><input type="submit" value="go"></form><p>ok</p>`,
			banned: []string{"<form", "javascript:", "<input"},
			keeps:  "<p>ok</p>",
		},
		"button formaction": {
			in:     `<button formaction="javascript:alert(1)">x</button>`,
			banned: []string{"formaction", "javascript:", "<button"},
			keeps:  "x",
		},
		"data url link": {
			in:     `<a href="data:text/html;base64,PHNjcmlwdD5hbGVydCgxKTwvc2NyaXB0Pg==">click</a>`,
			banned: []string{"data:", "base64"},
			keeps:  "click",
		},
		"meta refresh": {
			in:     `<meta http-equiv="refresh" content="0;url=javascript:alert(1)"><p>body</p>`,
			banned: []string{"<meta", "refresh", "javascript:"},
			keeps:  "<p>body</p>",
		},
		"vbscript src": {
			in:     `<img src="vbscript:msgbox(1)">`,
			banned: []string{"vbscript:"},
		},
		"style element": {
			in:     `<style>body{background:url(javascript:alert(1))}</style><em>hi</em>`,
			banned: []string{"<style", "javascript:"},
			keeps:  "<em>hi</em>",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			out := Sanitize(tc.in)
			for _, b := range tc.banned {
				assert.NotContains(t, out, b)
			}
			assert.Contains(t, out, tc.keeps)
		})
	}
}
