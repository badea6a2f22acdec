package services

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"hey-sainty/cmd/web/clients/blogclient"
	"hey-sainty/cmd/web/dto"
	"hey-sainty/cmd/web/editor"
	"hey-sainty/cmd/web/listing"
	"hey-sainty/cmd/web/media"
)

const (
	// GridSummaryRunes 와 CarouselSummaryRunes 는 카드 요약문 최대 길이이다.
	GridSummaryRunes     = 130
	CarouselSummaryRunes = 140

	cardDateLayout = "2 Jan 2006"
)

// DateLine 은 수정된 적 없는 글은 게시일, 수정된 글은 최종 수정일을 보여준다.
func DateLine(created, updated time.Time) string {
	if updated.IsZero() || updated.Equal(created) {
		return "Published on: " + created.Format(cardDateLayout)
	}
	return "Last updated on: " + updated.Format(cardDateLayout)
}

// Truncate 는 s 가 n 룬보다 길면 n 룬까지 자르고 "..." 를 붙인다.
func Truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}

func PostURL(permalink string) string {
	return "/blog/" + url.PathEscape(permalink)
}

func TagURL(tag string) string {
	return "/blog/tag/" + url.PathEscape(tag)
}

func mapCard(p blogclient.Post, summaryRunes int) dto.PostCardDTO {
	tags := make([]dto.TagDTO, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, dto.TagDTO{Name: t, URL: TagURL(t)})
	}
	return dto.PostCardDTO{
		ID:        p.ID,
		Title:     p.Title,
		Permalink: p.Permalink,
		URL:       PostURL(p.Permalink),
		Summary:   Truncate(p.Summary, summaryRunes),
		Author:    p.Author,
		DateLine:  DateLine(p.DateCreated, p.LastUpdated),
		Views:     fmt.Sprintf("%d views", p.Views),
		CoverURL:  media.CoverURL(p.CoverImage),
		Tags:      tags,
	}
}

func mapDetail(p blogclient.Post) dto.PostDetailDTO {
	card := mapCard(p, len([]rune(p.Summary)))
	return dto.PostDetailDTO{
		PostCardDTO: card,
		// 저장 시점에도 정리하지만 다른 클라이언트가 쓴 글도 있으므로 렌더 전에 한 번 더 정리한다.
		Content: template.HTML(editor.Sanitize(p.Content)),
	}
}

// MapListing 은 listing.State 를 화면/JSON 응답용 DTO 로 변환한다.
func MapListing(viewID string, pageSize int, s listing.State) dto.ListingDTO {
	cards := make([]dto.PostCardDTO, 0, len(s.Posts))
	for _, p := range s.Posts {
		cards = append(cards, mapCard(p, GridSummaryRunes))
	}
	out := dto.ListingDTO{
		ViewID: viewID,
		Tag:    s.Param,
		Pagination: dto.Pagination[dto.PostCardDTO]{
			Data:     cards,
			Page:     s.Page,
			PageSize: pageSize,
			Total:    s.Total,
			HasMore:  s.HasMore(),
		},
		Loading: s.Loading,
		Empty:   s.Empty(),
	}
	if s.Err != nil {
		out.Error = "Could not load posts. Please try again."
	}
	return out
}
