package dto

// Pagination is a generic pagination envelope for list results.
// Page is 1-based; Total is the collaborator's total-count hint for the
// current filter, not the number of items in Data.
type Pagination[T any] struct {
	Data     []T  `json:"data"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	HasMore  bool `json:"has_more"`
}

// ListingDTO is one mounted listing view: the accumulated cards plus the
// view id used for load-more and unmount requests.
type ListingDTO struct {
	ViewID string `json:"view_id"`
	Tag    string `json:"tag,omitempty"`
	Pagination[PostCardDTO]
	Loading bool `json:"loading"`
	// Empty is true when the first page resolved with nothing to show.
	Empty bool `json:"empty"`
	// Notice is an informational line such as "No more blogs to load".
	Notice string `json:"notice,omitempty"`
	Error  string `json:"error,omitempty"`
}
