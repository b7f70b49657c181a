// Package pagination slices ordered sequences into fixed-size, 1-based pages.
package pagination

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const DefaultSize = 5

// Page describes one page of an ordered sequence of Total items.
type Page struct {
	Number  int   `json:"page"`
	Size    int   `json:"page_size"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
	NextNum int   `json:"next_page,omitempty"`
	PrevNum int   `json:"prev_page,omitempty"`
}

// New computes the page metadata for page number of a sequence holding total
// items. Numbers outside [1, Pages] are kept as-is and report InRange false.
func New(number, size int, total int64) Page {
	if size < 1 {
		size = DefaultSize
	}
	if total < 0 {
		total = 0
	}
	pages := int((total + int64(size) - 1) / int64(size))

	p := Page{Number: number, Size: size, Total: total, Pages: pages}
	if p.InRange() && number < pages {
		p.HasNext = true
		p.NextNum = number + 1
	}
	if number > 1 && pages > 0 {
		p.HasPrev = true
		p.PrevNum = min(number-1, pages)
	}
	return p
}

func (p Page) InRange() bool {
	return p.Number >= 1 && p.Number <= p.Pages
}

// Offset is the index of the first item on the page. Only meaningful when InRange.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Limit is the number of items the page holds.
func (p Page) Limit() int {
	if !p.InRange() {
		return 0
	}
	remaining := int(p.Total) - p.Offset()
	return min(p.Size, remaining)
}

// Slice returns the items of page number together with its metadata.
// Out-of-range pages yield an empty, non-nil slice.
func Slice[T any](items []T, number, size int) ([]T, Page) {
	p := New(number, size, int64(len(items)))
	if !p.InRange() {
		return []T{}, p
	}
	start := p.Offset()
	return items[start : start+p.Limit()], p
}

// ParseNumber reads a page query value: missing or non-numeric means page 1,
// anything numeric is passed through unchanged. Numbers too large for an int
// saturate, so they still land outside the sequence.
func ParseNumber(raw string) int {
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(raw, "-") {
			return math.MinInt
		}
		return math.MaxInt
	}
	if err != nil {
		return 1
	}
	return n
}
