package domain

const (
	DefaultPage         = 1
	DefaultItemsPerPage = 5
	MaxItemsPerPage     = 100
)

// Pagination selects a page of a listing.
type Pagination struct {
	Page         int `json:"page"`
	ItemsPerPage int `json:"items_per_page"`
}

// Normalize fills defaults and clamps the page size to maxPerPage.
func (p Pagination) Normalize(defaultPerPage, maxPerPage int) Pagination {
	if defaultPerPage <= 0 {
		defaultPerPage = DefaultItemsPerPage
	}
	if maxPerPage <= 0 {
		maxPerPage = MaxItemsPerPage
	}
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.ItemsPerPage < 1 {
		p.ItemsPerPage = defaultPerPage
	}
	if p.ItemsPerPage > maxPerPage {
		p.ItemsPerPage = maxPerPage
	}
	return p
}

// Offset returns the number of rows skipped before this page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.ItemsPerPage
}

// PageInfo describes the full result set behind a page.
type PageInfo struct {
	TotalPages int `json:"total_pages"`
	TotalRows  int `json:"total_rows"`
}

// NewPageInfo computes ceil(totalRows / itemsPerPage) pages.
func NewPageInfo(totalRows, itemsPerPage int) PageInfo {
	if itemsPerPage <= 0 || totalRows <= 0 {
		return PageInfo{TotalRows: max(totalRows, 0)}
	}
	return PageInfo{
		TotalPages: (totalRows + itemsPerPage - 1) / itemsPerPage,
		TotalRows:  totalRows,
	}
}

// ReportList is one page of reports plus the page metadata.
type ReportList struct {
	Reports    []Report `json:"reports"`
	Pagination PageInfo `json:"pagination"`
}
