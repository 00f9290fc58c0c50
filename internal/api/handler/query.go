package handler

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

const (
	defaultLimit = 10
	maxLimit     = 100
	maxOffset    = math.MaxInt32
)

// listFields is the allow-list of query keys a list endpoint accepts.
type listFields struct {
	filters []string
	sorts   []string
}

var (
	authorListFields = listFields{
		filters: []string{"role"},
		sorts:   []string{"firstName", "lastName", "email", "role", "createdAt", "updatedAt"},
	}
	blogPostListFields = listFields{
		filters: []string{"category", "title", "authorId"},
		sorts:   []string{"category", "title", "createdAt", "updatedAt"},
	}
)

// parseListQuery translates limit, offset, sort and equality filters of the
// request query string. Unknown filter keys are ignored.
func parseListQuery(c echo.Context, fields listFields) (ports.ListQuery, error) {
	q := ports.ListQuery{Limit: defaultLimit, Filters: map[string]string{}}
	params := c.QueryParams()

	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return q, domain.ValidationError("limit must be a positive integer")
		}
		q.Limit = min(n, maxLimit)
	}
	if v := params.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > maxOffset {
			return q, domain.ValidationError("offset must be an integer between 0 and %d", maxOffset)
		}
		q.Offset = n
	}
	if v := params.Get("sort"); v != "" {
		for _, key := range strings.Split(v, ",") {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			field := ports.SortField{Field: strings.TrimPrefix(key, "-"), Desc: strings.HasPrefix(key, "-")}
			if !slices.Contains(fields.sorts, field.Field) {
				return q, domain.ValidationError("cannot sort by %q", field.Field)
			}
			q.Sort = append(q.Sort, field)
		}
	}
	for _, key := range fields.filters {
		if v := strings.TrimSpace(params.Get(key)); v != "" {
			q.Filters[key] = v
		}
	}
	return q, nil
}

type pageLinks struct {
	Self  string `json:"self"`
	First string `json:"first"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
	Last  string `json:"last"`
}

// buildLinks returns navigation links that keep every other query parameter
// of the current request and only move the offset.
func buildLinks(c echo.Context, offset, limit int, total int64) pageLinks {
	at := func(off int) string {
		params := url.Values{}
		for k, v := range c.QueryParams() {
			params[k] = v
		}
		params.Set("limit", strconv.Itoa(limit))
		params.Set("offset", strconv.Itoa(off))
		return c.Request().URL.Path + "?" + params.Encode()
	}

	lastOffset := 0
	if total > 0 {
		lastOffset = int((total - 1) / int64(limit) * int64(limit))
	}
	links := pageLinks{
		Self:  at(offset),
		First: at(0),
		Last:  at(lastOffset),
	}
	if offset > 0 {
		links.Prev = at(max(offset-limit, 0))
	}
	if next := int64(offset) + int64(limit); next < total {
		links.Next = at(int(next))
	}
	return links
}
