package helpers

import (
	"strconv"

	"github.com/goliatone/go-storetheme/pkg/markup"
)

// PaginationOptions customises the pagination markup.
type PaginationOptions struct {
	Previous string // class of the previous link
	Next     string // class of the next link
	Limit    int    // page buttons per window
	Collapse string // marker shown where the window stops short of an edge
}

// PaginationWindow returns the first and last page numbers shown for the
// current page. The window starts at max(1, page-limit+1) and stops after
// limit buttons or at the last page, whichever comes first.
func PaginationWindow(page, pages, limit int) (start, end int) {
	if pages < 1 {
		return 0, -1
	}
	if limit < 1 {
		limit = pages
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start = max(1, page-limit+1)
	end = min(start+limit-1, pages)
	return start, end
}

// Pagination renders previous/next links and the numbered window for p, a
// {page, pages} object. current_page/last_page are accepted as aliases. The
// page is clamped to [1, pages]. An empty listing (pages < 1) yields a nil
// element.
func Pagination(p map[string]any, opts PaginationOptions) (*markup.Element, bool) {
	page, okPage := pageNumber(p, "page", "current_page")
	pages, okPages := pageNumber(p, "pages", "last_page", "total_pages")
	if !okPage || !okPages {
		return nil, false
	}
	if pages < 1 {
		return nil, true
	}
	page = min(max(page, 1), pages)
	if opts.Collapse == "" {
		opts.Collapse = "…"
	}
	start, end := PaginationWindow(page, pages, opts.Limit)

	nav := markup.El("nav", markup.A("class", "pagination"), markup.A("aria-label", "pagination"))
	if page > 1 {
		nav.Append(pageLink(page-1, "Previous").Class(opts.Previous).Attr("rel", "prev"))
	}
	if start > 1 {
		nav.Append(collapseMarker(opts.Collapse))
	}
	for n := start; n <= end; n++ {
		link := pageLink(n, strconv.Itoa(n)).Attr("data-page", strconv.Itoa(n))
		if n == page {
			link.Class("active").Attr("aria-current", "page")
		}
		nav.Append(link)
	}
	if end < pages {
		nav.Append(collapseMarker(opts.Collapse))
	}
	if page < pages {
		nav.Append(pageLink(page+1, "Next").Class(opts.Next).Attr("rel", "next"))
	}
	return nav, true
}

func pageLink(n int, label string) *markup.Element {
	return markup.El("a", markup.A("href", "?page="+strconv.Itoa(n))).Append(markup.Text(label))
}

func collapseMarker(text string) *markup.Element {
	return markup.El("span", markup.A("class", "pagination-collapse")).Append(markup.Text(text))
}

func pageNumber(p map[string]any, keys ...string) (int, bool) {
	for _, key := range keys {
		if value, ok := p[key]; ok {
			if n, isNum := toInt(value); isNum {
				return n, true
			}
		}
	}
	return 0, false
}
