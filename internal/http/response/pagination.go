package response

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// Page is the paginated list envelope.
type Page struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// PageRequest is a parsed ?page=&limit= pair.
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) Offset() int { return (p.Page - 1) * p.Limit }

// ParsePage reads page (1-based) and limit. A malformed page, or one whose
// offset would not fit an int32, writes a 404 and returns false; a malformed
// limit falls back to the default.
func ParsePage(c *gin.Context) (PageRequest, bool) {
	req := PageRequest{Page: 1, Limit: DefaultPageSize}
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondError(c, http.StatusNotFound, "invalid page")
			return req, false
		}
		req.Page = n
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			req.Limit = n
		}
	}
	if req.Limit > MaxPageSize {
		req.Limit = MaxPageSize
	}
	if req.Page > math.MaxInt32/req.Limit {
		RespondError(c, http.StatusNotFound, "invalid page")
		return req, false
	}
	return req, true
}

// RespondPage writes a Page with absolute next/previous links. Pages past
// the end (other than the first) are a 404.
func RespondPage(c *gin.Context, req PageRequest, count int64, results any) {
	if req.Page > 1 && int64(req.Offset()) >= count {
		RespondError(c, http.StatusNotFound, "invalid page")
		return
	}
	page := Page{Count: count, Results: results}
	if int64(req.Page*req.Limit) < count {
		next := pageURL(c, req.Page+1)
		page.Next = &next
	}
	if req.Page > 1 {
		prev := pageURL(c, req.Page-1)
		page.Previous = &prev
	}
	RespondOK(c, page)
}

func pageURL(c *gin.Context, page int) string {
	u := url.URL{
		Scheme: requestScheme(c.Request),
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	q := c.Request.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func requestScheme(r *http.Request) string {
	if proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		return strings.ToLower(strings.Split(proto, ",")[0])
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
