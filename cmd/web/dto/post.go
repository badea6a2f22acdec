package dto

import "html/template"

// TagDTO is a tag chip linking to the tag's listing.
type TagDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PostCardDTO is a post as shown in the grid and the category carousel.
// Summary is already truncated for the card it belongs to.
type PostCardDTO struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Permalink string   `json:"permalink"`
	URL       string   `json:"url"`
	Summary   string   `json:"summary"`
	Author    string   `json:"author"`
	DateLine  string   `json:"date_line"`
	Views     string   `json:"views"`
	CoverURL  string   `json:"cover_url"`
	Tags      []TagDTO `json:"tags"`
}

// PostDetailDTO is a single post page. Content is sanitized HTML.
type PostDetailDTO struct {
	PostCardDTO
	Content template.HTML `json:"content"`
}

// CategorySectionDTO is one carousel row. Hidden rows are not rendered.
type CategorySectionDTO struct {
	Tag     string        `json:"tag"`
	URL     string        `json:"url"`
	Posts   []PostCardDTO `json:"posts"`
	Visible bool          `json:"visible"`
}
