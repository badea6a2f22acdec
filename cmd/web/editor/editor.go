// Package editor turns the blog editor form into a save request for the
// blog API: required-field checks, tag normalisation, permalink slugs and a
// plain-text summary derived from the rich-text body.
package editor

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"hey-sainty/cmd/web/clients/blogclient"
)

// SummaryRunes is how much body text becomes the summary when none is given.
const SummaryRunes = 300

const (
	MsgTitleRequired   = "Title is required"
	MsgContentRequired = "Content is required"
	MsgTagsRequired    = "At least one tag is required"
)

// Form is the editor's submitted fields. Tags is the raw comma separated input.
type Form struct {
	ID         string `form:"id"`
	Title      string `form:"title"`
	Permalink  string `form:"permalink"`
	Summary    string `form:"summary"`
	Content    string `form:"content"`
	Tags       string `form:"tags"`
	CoverImage string `form:"coverimage"`
}

// ValidationError lists every inline message for a rejected form.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Validate checks the required fields. It returns nil or a *ValidationError.
func (f Form) Validate() error {
	var msgs []string
	if strings.TrimSpace(f.Title) == "" {
		msgs = append(msgs, MsgTitleRequired)
	}
	if strings.TrimSpace(PlainText(f.Content)) == "" {
		msgs = append(msgs, MsgContentRequired)
	}
	if len(ParseTags(f.Tags)) == 0 {
		msgs = append(msgs, MsgTagsRequired)
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// IsUpdate reports whether the form edits an existing post.
func (f Form) IsUpdate() bool {
	return strings.TrimSpace(f.ID) != ""
}

// Build validates the form and derives the request body sent to the blog API.
func (f Form) Build() (blogclient.SaveBlogRequest, error) {
	if err := f.Validate(); err != nil {
		return blogclient.SaveBlogRequest{}, err
	}

	title := strings.TrimSpace(f.Title)
	permalink := Slugify(f.Permalink)
	if permalink == "" {
		permalink = Slugify(title)
	}
	if permalink == "" {
		// titles with no latin letters
		permalink = "post-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}

	summary := strings.TrimSpace(f.Summary)
	if summary == "" {
		summary = truncateRunes(PlainText(f.Content), SummaryRunes)
	}

	return blogclient.SaveBlogRequest{
		Title:      title,
		Permalink:  permalink,
		Summary:    summary,
		Content:    Sanitize(f.Content),
		Tags:       ParseTags(f.Tags),
		CoverImage: strings.TrimSpace(f.CoverImage),
	}, nil
}

// ParseTags splits comma separated input, trims each tag and drops empty
// and repeated ones, keeping first-seen order. Repeats are matched case-insensitively.
func ParseTags(raw string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, t := range strings.Split(raw, ",") {
		t = strings.Join(strings.Fields(t), " ")
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, t)
	}
	return tags
}

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases s, folds accents and collapses every run of other
// characters into a single "-".
func Slugify(s string) string {
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
