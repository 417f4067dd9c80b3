package api

import (
	"fmt"

	"github.com/itchan-dev/itblog/shared/domain"
)

// Success status tokens. Failure tokens live next to the error taxonomy.
const (
	CodeSuccess   = "success"
	CodeCreated   = "created"
	CodeNoContent = "noContent"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Code       string            `json:"code"`
	Message    string            `json:"message,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Data       map[string]any    `json:"data,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

type Link struct {
	Page int    `json:"page"`
	Href string `json:"href"`
}

// Pagination describes neighbouring pages of a listing. Prev and Next are
// omitted when there is no such page.
type Pagination struct {
	Prev  *Link `json:"prev,omitempty"`
	Next  *Link `json:"next,omitempty"`
	Count int   `json:"count"`
}

func pageLink(path string, number int) *Link {
	return &Link{Page: number, Href: fmt.Sprintf("%s?page=%d", path, number)}
}

// NewPagination builds the pagination block for page, linking relative to path.
func NewPagination[T any](page domain.Page[T], path string) *Pagination {
	p := &Pagination{Count: page.Total}
	if page.HasPrev() {
		p.Prev = pageLink(path, page.Number-1)
	}
	if page.HasNext() {
		p.Next = pageLink(path, page.Number+1)
	}
	return p
}
