package controllers

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/voice-local/api-go/repository"
)

// PageResponse is the list envelope shared by every collection endpoint.
type PageResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

func newPageResponse(c *gin.Context, q repository.ListQuery, count int64, results interface{}) PageResponse {
	resp := PageResponse{Count: count, Results: results}

	if int64(q.Page*q.PageSize) < count {
		next := pageURL(c, q.Page+1)
		resp.Next = &next
	}
	if q.Page > 1 {
		prev := pageURL(c, q.Page-1)
		resp.Previous = &prev
	}
	return resp
}

// pageURL rebuilds the absolute request URL pointing at another page. The
// first page carries no page parameter.
func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := c.Request.URL.Query()
	if page <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}
